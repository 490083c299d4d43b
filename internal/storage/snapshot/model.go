package snapshot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	StorageKind   = "json_snapshot"
	FormatVersion = 1
)

var (
	ErrNotFound = errors.New("snapshot not found")
	ErrCorrupt  = errors.New("snapshot unreadable")
)

// Meta describes the snapshot itself.
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// PersistAccount is the stored form of one account. Balance is nullable so a
// missing or null balance can be told apart from a real zero.
type PersistAccount struct {
	ID           string              `json:"id"`
	PIN          string              `json:"pin"`
	Balance      decimal.NullDecimal `json:"balance"`
	LastActivity time.Time           `json:"last_activity"`
}

// Snapshot is the full account set at one point in time, keyed by account id.
type Snapshot struct {
	Meta     Meta                      `json:"_meta"`
	Accounts map[string]PersistAccount `json:"accounts"`
}

// ISnapshotFile is the durable location a Snapshot is read from and written to.
// Read returns ErrNotFound when nothing has been written yet and an error
// wrapping ErrCorrupt when the stored bytes cannot be trusted.
//
//go:generate mockery --name ISnapshotFile --output . --outpkg snapshot --filename mock_ISnapshotFile.go --with-expecter
type ISnapshotFile interface {
	Read(ctx context.Context) (*Snapshot, error)
	Write(ctx context.Context, snap *Snapshot) error
	Quarantine(ctx context.Context) (string, error)
}
