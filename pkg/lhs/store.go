package lhs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// On-disk layout: one badger key per hash key ("k:" + 8-byte big-endian),
// value = count-prefixed list of 4 int64 coefficients per entry, plus a
// single metadata record describing how the table was built.
var metaKey = []byte("meta")

const keyPrefix = "k:"

func encodeKey(key int64) []byte {
	buf := make([]byte, len(keyPrefix)+8)
	copy(buf, keyPrefix)
	binary.BigEndian.PutUint64(buf[len(keyPrefix):], uint64(key))
	return buf
}

func decodeKey(raw []byte) (int64, bool) {
	if len(raw) != len(keyPrefix)+8 || string(raw[:len(keyPrefix)]) != keyPrefix {
		return 0, false
	}
	return int64(binary.BigEndian.Uint64(raw[len(keyPrefix):])), true
}

func encodeEntries(entries []Entry) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(len(entries)))
	for _, e := range entries {
		binary.Write(&buf, binary.BigEndian, e.A)
		binary.Write(&buf, binary.BigEndian, e.B)
		binary.Write(&buf, binary.BigEndian, e.C)
		binary.Write(&buf, binary.BigEndian, e.D)
	}
	return buf.Bytes()
}

func decodeEntries(raw []byte) ([]Entry, error) {
	buf := bytes.NewReader(raw)
	var n uint32
	if err := binary.Read(buf, binary.BigEndian, &n); err != nil {
		return nil, fmt.Errorf("lhs: corrupt entry list: %w", err)
	}
	entries := make([]Entry, n)
	for i := range entries {
		for _, field := range []*int64{&entries[i].A, &entries[i].B, &entries[i].C, &entries[i].D} {
			if err := binary.Read(buf, binary.BigEndian, field); err != nil {
				return nil, fmt.Errorf("lhs: corrupt entry %d: %w", i, err)
			}
		}
	}
	return entries, nil
}

type meta struct {
	Limit     int64
	KeyDigits int64
	Constant  string
}

func encodeMeta(m meta) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, m.Limit)
	binary.Write(&buf, binary.BigEndian, m.KeyDigits)
	buf.WriteString(m.Constant)
	return buf.Bytes()
}

func decodeMeta(raw []byte) (meta, error) {
	var m meta
	buf := bytes.NewReader(raw)
	if err := binary.Read(buf, binary.BigEndian, &m.Limit); err != nil {
		return m, fmt.Errorf("lhs: corrupt metadata: %w", err)
	}
	if err := binary.Read(buf, binary.BigEndian, &m.KeyDigits); err != nil {
		return m, fmt.Errorf("lhs: corrupt metadata: %w", err)
	}
	rest := make([]byte, buf.Len())
	buf.Read(rest)
	m.Constant = string(rest)
	return m, nil
}

func openDB(path string, log *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if log != nil {
		opts = opts.WithLogger(badgerLogger{log})
	} else {
		opts = opts.WithLogger(nil)
	}
	return badger.Open(opts)
}

// Save persists the table to a BadgerDB directory, overwriting any table
// already stored there.
func (t *Table) Save(path string, log *slog.Logger) error {
	db, err := openDB(path, log)
	if err != nil {
		return fmt.Errorf("lhs: open store: %w", err)
	}
	defer db.Close()

	if err := db.DropAll(); err != nil {
		return fmt.Errorf("lhs: clear store: %w", err)
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()
	m := meta{Limit: t.Limit, KeyDigits: int64(t.KeyDigits), Constant: t.Constant}
	if err := wb.Set(metaKey, encodeMeta(m)); err != nil {
		return fmt.Errorf("lhs: write metadata: %w", err)
	}
	for key, entries := range t.entries {
		if err := wb.Set(encodeKey(key), encodeEntries(entries)); err != nil {
			return fmt.Errorf("lhs: write key %d: %w", key, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("lhs: flush store: %w", err)
	}
	return nil
}

// Load reads a previously saved table into memory. The whole table is
// materialized: membership probes during enumeration must not touch disk.
func Load(path string, log *slog.Logger) (*Table, error) {
	db, err := openDB(path, log)
	if err != nil {
		return nil, fmt.Errorf("lhs: open store: %w", err)
	}
	defer db.Close()

	t := &Table{entries: make(map[int64][]Entry)}
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey)
		if err != nil {
			return fmt.Errorf("lhs: missing metadata: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			m, err := decodeMeta(val)
			if err != nil {
				return err
			}
			t.Limit = m.Limit
			t.KeyDigits = int(m.KeyDigits)
			t.Constant = m.Constant
			return nil
		}); err != nil {
			return err
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key, ok := decodeKey(item.Key())
			if !ok {
				continue
			}
			if err := item.Value(func(val []byte) error {
				entries, err := decodeEntries(val)
				if err != nil {
					return err
				}
				t.entries[key] = entries
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Info("lhs table loaded", "path", path, "constant", t.Constant, "keys", len(t.entries))
	}
	return t, nil
}

// badgerLogger adapts slog to badger's Logger interface.
type badgerLogger struct {
	log *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
