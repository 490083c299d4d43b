package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const fileMode = 0o600

// JSONFile stores a Snapshot as one JSON document. Writes go to a temporary
// file in the same directory which is then renamed over the target, so a
// reader only ever sees the previous whole file or the new whole file.
type JSONFile struct {
	path string
}

var _ ISnapshotFile = (*JSONFile)(nil)

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (f *JSONFile) Read(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, corrupt(err, "read %s", f.path)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, corrupt(err, "decode %s", f.path)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, corrupt(errors.New("trailing data after snapshot"), "decode %s", f.path)
	}

	if err := validate(&snap); err != nil {
		return nil, corrupt(err, "validate %s", f.path)
	}

	return &snap, nil
}

func (f *JSONFile) Write(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := *snap
	out.Meta = Meta{
		Storage:   StorageKind,
		Version:   FormatVersion,
		Timestamp: time.Now().UTC(),
	}
	if out.Accounts == nil {
		out.Accounts = map[string]PersistAccount{}
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "snapshot.Write marshal")
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "snapshot.Write create temp")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "snapshot.Write write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "snapshot.Write sync %s", tmpName)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "snapshot.Write chmod %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "snapshot.Write close %s", tmpName)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.Wrapf(err, "snapshot.Write rename %s", f.path)
	}
	committed = true

	syncDir(dir)
	return nil
}

// Quarantine moves an unreadable snapshot aside so the next Write cannot
// overwrite it. It returns the new location, or "" if there was nothing to move.
func (f *JSONFile) Quarantine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := f.path + ".corrupt-" + time.Now().UTC().Format("20060102T150405.000000000Z")
	err := os.Rename(f.path, target)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "snapshot.Quarantine rename %s", f.path)
	}

	syncDir(filepath.Dir(f.path))
	return target, nil
}

func validate(snap *Snapshot) error {
	if snap.Meta.Storage != StorageKind {
		return errors.Errorf("unexpected storage kind %q", snap.Meta.Storage)
	}
	if snap.Meta.Version != FormatVersion {
		return errors.Errorf("unsupported snapshot version %d", snap.Meta.Version)
	}
	if snap.Accounts == nil {
		return errors.New("accounts object missing")
	}
	for key, acct := range snap.Accounts {
		if key != acct.ID {
			return errors.Errorf("account key %q does not match id %q", key, acct.ID)
		}
		if !acct.Balance.Valid {
			return errors.Errorf("account %q has no balance", key)
		}
	}
	return nil
}

func corrupt(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(errors.WithMessage(ErrCorrupt, cause.Error()), format, args...)
}

// syncDir flushes the directory entry after a rename. Not every platform
// supports fsync on directories, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
