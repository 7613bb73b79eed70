package overmap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	bolt "github.com/coreos/bbolt"
	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/tinymap"
)

// Snapshot buckets. Generated terrain is fully reconstructible from the seed,
// so the snapshot stores only what diverged from generation: relabeled and
// revealed chunks, special ownership, edited blocks, and which sectors exist.
var snapshotBuckets = []string{"sectors", "chunks", "seen", "specials", "blocks", "meta"}

func chunkKey(c coords.Overmap) []byte {
	return []byte(fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z))
}

func parseChunkKey(k []byte) (coords.Overmap, error) {
	var c coords.Overmap
	_, err := fmt.Sscanf(string(k), "%d,%d,%d", &c.X, &c.Y, &c.Z)
	return c, err
}

// SaveTo writes the buffer's divergent state to a bolt database at path,
// replacing any previous snapshot in it.
func (b *Buffer) SaveTo(path string) error {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range snapshotBuckets {
			if err := tx.DeleteBucket([]byte(name)); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}

		sectors := tx.Bucket([]byte("sectors"))
		for s := range b.sectors {
			if err := sectors.Put(chunkKey(s), []byte{1}); err != nil {
				return err
			}
		}

		chunks := tx.Bucket([]byte("chunks"))
		for c, tag := range b.ter {
			if err := chunks.Put(chunkKey(c), []byte(tag)); err != nil {
				return err
			}
		}

		seen := tx.Bucket([]byte("seen"))
		for c := range b.seen {
			if err := seen.Put(chunkKey(c), []byte{1}); err != nil {
				return err
			}
		}

		specials := tx.Bucket([]byte("specials"))
		for c, id := range b.specialAt {
			if err := specials.Put(chunkKey(c), []byte(id)); err != nil {
				return err
			}
		}

		blocks := tx.Bucket([]byte("blocks"))
		for c, blk := range b.blocks {
			data, err := json.Marshal(blk)
			if err != nil {
				return err
			}
			if err := blocks.Put(chunkKey(c), data); err != nil {
				return err
			}
		}

		cities, err := json.Marshal(b.cities)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte("meta")).Put([]byte("cities"), cities)
	})
}

// LoadFrom restores a snapshot written by SaveTo into the buffer, replacing
// its in-memory state. The buffer must have been created with the same world
// seed, or chunks outside the snapshot will not line up.
func (b *Buffer) LoadFrom(path string) error {
	db, err := bolt.Open(path, 0600, &bolt.Options{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	sectors := make(map[coords.Overmap]bool)
	ter := make(map[coords.Overmap]string)
	seen := make(map[coords.Overmap]bool)
	specialAt := make(map[coords.Overmap]string)
	blocks := make(map[coords.Overmap]*tinymap.Block)
	var cities []City

	err = db.View(func(tx *bolt.Tx) error {
		for _, name := range snapshotBuckets {
			if tx.Bucket([]byte(name)) == nil {
				return fmt.Errorf("snapshot missing bucket %q", name)
			}
		}

		err := tx.Bucket([]byte("sectors")).ForEach(func(k, _ []byte) error {
			s, err := parseChunkKey(k)
			if err != nil {
				return err
			}
			sectors[s] = true
			return nil
		})
		if err != nil {
			return err
		}

		err = tx.Bucket([]byte("chunks")).ForEach(func(k, v []byte) error {
			c, err := parseChunkKey(k)
			if err != nil {
				return err
			}
			ter[c] = string(v)
			return nil
		})
		if err != nil {
			return err
		}

		err = tx.Bucket([]byte("seen")).ForEach(func(k, _ []byte) error {
			c, err := parseChunkKey(k)
			if err != nil {
				return err
			}
			seen[c] = true
			return nil
		})
		if err != nil {
			return err
		}

		err = tx.Bucket([]byte("specials")).ForEach(func(k, v []byte) error {
			c, err := parseChunkKey(k)
			if err != nil {
				return err
			}
			specialAt[c] = string(v)
			return nil
		})
		if err != nil {
			return err
		}

		err = tx.Bucket([]byte("blocks")).ForEach(func(k, v []byte) error {
			c, err := parseChunkKey(k)
			if err != nil {
				return err
			}
			blk := &tinymap.Block{}
			if err := json.Unmarshal(v, blk); err != nil {
				return err
			}
			blocks[c] = blk
			return nil
		})
		if err != nil {
			return err
		}

		return json.Unmarshal(tx.Bucket([]byte("meta")).Get([]byte("cities")), &cities)
	})
	if err != nil {
		return err
	}

	b.sectors = sectors
	b.ter = ter
	b.seen = seen
	b.specialAt = specialAt
	b.blocks = blocks
	b.cities = cities
	return nil
}

// Saver snapshots the world on a fixed tick cadence.
type Saver struct {
	buf   *Buffer
	path  string
	every int
	ticks int
}

// NewSaver saves buf to path every given number of ticks.
func NewSaver(buf *Buffer, path string, every int) *Saver {
	if every < 1 {
		every = 1
	}
	return &Saver{buf: buf, path: path, every: every}
}

// Tick counts down to the next autosave. A failed save is logged and retried
// on the next cadence; it never stops the game loop.
func (s *Saver) Tick(ctx context.Context) error {
	s.ticks++
	if s.ticks%s.every != 0 {
		return nil
	}
	if err := s.buf.SaveTo(s.path); err != nil {
		slog.WarnContext(ctx, "autosaving world", "path", s.path, "error", err)
	}
	return nil
}
