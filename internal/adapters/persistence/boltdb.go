package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	bin "github.com/gagliardetto/binary"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/fundswap/internal/domain"
)

const (
	TokensBucket = "tokens"
	FundsBucket  = "funds"
	PricesBucket = "prices"
	CurvesBucket = "curves"
	MetaBucket   = "meta"

	DefaultDBPath = "./data/fundswap.db"

	metaKey  = "snapshot"
	buyKey   = "buy"
	sellKey  = "sell"
	indexFmt = "%08d"
)

var ErrNoStoredSnapshot = errors.New("no stored snapshot")

type batchWriter interface {
	Add(op *boltdb.WriteOperation) error
}

// Storage persists the last accepted snapshot so a restart can serve quotes
// before the first refresh.
type Storage struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[snapshotStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func indexKey(i int) []byte {
	return []byte(fmt.Sprintf(indexFmt, i))
}

// SaveSnapshot writes the snapshot in one batch. Records are keyed by index;
// the meta record bounds what LoadSnapshot reads back, so leftovers from a
// larger earlier snapshot are ignored.
func (s *Storage) SaveSnapshot(snap *domain.Snapshot) error {
	batch := s.db.NewBatch()
	add := func(bucket string, key []byte, v any) error {
		data, err := sonic.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s/%s: %w", bucket, key, err)
		}
		return addRaw(batch, bucket, key, data)
	}

	for i := range snap.Tokens {
		if err := add(TokensBucket, indexKey(i), tokenToStored(&snap.Tokens[i])); err != nil {
			return err
		}
		var price domain.OraclePrice
		if i < len(snap.Prices) {
			price = snap.Prices[i]
		}
		if err := add(PricesBucket, indexKey(i), priceToStored(domain.TokenID(i), price)); err != nil {
			return err
		}
	}
	for i := range snap.Funds {
		if err := add(FundsBucket, indexKey(i), fundToStored(&snap.Funds[i])); err != nil {
			return err
		}
	}

	buy, err := bin.MarshalBorsh(padCurves(snap.Curves.Buy, len(snap.Tokens)))
	if err != nil {
		return fmt.Errorf("failed to encode buy curves: %w", err)
	}
	sell, err := bin.MarshalBorsh(padCurves(snap.Curves.Sell, len(snap.Tokens)))
	if err != nil {
		return fmt.Errorf("failed to encode sell curves: %w", err)
	}
	if err := addRaw(batch, CurvesBucket, []byte(buyKey), buy); err != nil {
		return err
	}
	if err := addRaw(batch, CurvesBucket, []byte(sellKey), sell); err != nil {
		return err
	}

	meta := StoredMeta{
		Slot:      snap.Slot,
		UpdatedAt: snap.UpdatedAt,
		Accounts:  accountsToStored(snap.Accounts),
		Tokens:    len(snap.Tokens),
		Funds:     len(snap.Funds),
	}
	if err := add(MetaBucket, []byte(metaKey), meta); err != nil {
		return err
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Uint64("slot", snap.Slot).Msg("[snapshotStorage] FAILED to execute batch")
		return err
	}

	log.Info().
		Uint64("slot", snap.Slot).
		Int("tokens", len(snap.Tokens)).
		Int("funds", len(snap.Funds)).
		Msg("[snapshotStorage] saved snapshot")
	return nil
}

func addRaw(batch batchWriter, bucket string, key, data []byte) error {
	value := data
	op := &boltdb.WriteOperation{
		Bucket: []byte(bucket),
		Key:    key,
		Value:  &value,
		Op:     boltdb.OpSet,
	}
	if err := batch.Add(op); err != nil {
		return fmt.Errorf("failed to add %s/%s to batch: %w", bucket, key, err)
	}
	return nil
}

func padCurves(curves []domain.PiecewiseCurve, n int) []domain.PiecewiseCurve {
	out := make([]domain.PiecewiseCurve, n)
	copy(out, curves)
	return out
}

// LoadSnapshot reads back the last saved snapshot. It returns
// ErrNoStoredSnapshot when nothing was saved yet.
func (s *Storage) LoadSnapshot() (*domain.Snapshot, error) {
	metaData, err := s.db.List(MetaBucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStoredSnapshot, err)
	}
	raw, ok := metaData[metaKey]
	if !ok {
		return nil, ErrNoStoredSnapshot
	}
	var meta StoredMeta
	if err := sonic.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot meta: %w", err)
	}
	accounts, err := storedToAccounts(meta.Accounts)
	if err != nil {
		return nil, err
	}

	tokenData, err := s.db.List(TokensBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	priceData, err := s.db.List(PricesBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	fundData, err := s.db.List(FundsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	curveData, err := s.db.List(CurvesBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list curves: %w", err)
	}

	snap := &domain.Snapshot{
		Slot:      meta.Slot,
		UpdatedAt: meta.UpdatedAt,
		Accounts:  accounts,
		Tokens:    make(domain.TokenTable, meta.Tokens),
		Prices:    make(domain.PriceTable, meta.Tokens),
		Funds:     make([]domain.FundState, meta.Funds),
	}

	for i := 0; i < meta.Tokens; i++ {
		key := string(indexKey(i))
		var st StoredToken
		if err := unmarshalRecord(tokenData, key, &st); err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		if snap.Tokens[i], err = storedToToken(&st); err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}

		var sp StoredPrice
		if err := unmarshalRecord(priceData, key, &sp); err != nil {
			return nil, fmt.Errorf("price %d: %w", i, err)
		}
		price, err := parsePrice("price", sp.Price)
		if err != nil {
			return nil, fmt.Errorf("price %d: %w", i, err)
		}
		snap.Prices[i] = domain.OraclePrice{Price: price, PublishSlot: sp.PublishSlot}
	}

	for i := 0; i < meta.Funds; i++ {
		var sf StoredFund
		if err := unmarshalRecord(fundData, string(indexKey(i)), &sf); err != nil {
			return nil, fmt.Errorf("fund %d: %w", i, err)
		}
		if snap.Funds[i], err = storedToFund(&sf); err != nil {
			return nil, fmt.Errorf("fund %d: %w", i, err)
		}
	}

	if snap.Curves.Buy, err = decodeCurves(curveData, buyKey, meta.Tokens); err != nil {
		return nil, err
	}
	if snap.Curves.Sell, err = decodeCurves(curveData, sellKey, meta.Tokens); err != nil {
		return nil, err
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Uint64("slot", snap.Slot).
		Int("tokens", meta.Tokens).
		Int("funds", meta.Funds).
		Msg("[snapshotStorage] snapshot loading completed successfully")
	return snap, nil
}

func unmarshalRecord(data map[string][]byte, key string, v any) error {
	raw, ok := data[key]
	if !ok {
		return fmt.Errorf("%w: missing record %s", ErrInvalidRecord, key)
	}
	if err := sonic.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

func decodeCurves(data map[string][]byte, key string, n int) ([]domain.PiecewiseCurve, error) {
	raw, ok := data[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s curves", ErrInvalidRecord, key)
	}
	var curves []domain.PiecewiseCurve
	if err := bin.UnmarshalBorsh(&curves, raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s curves: %v", ErrInvalidRecord, key, err)
	}
	return padCurves(curves, n), nil
}
