package store

import (
	"context"
	"database/sql"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/iov-one/block-ledger/pkg/models"
	"github.com/iov-one/weave/errors"
)

const (
	// maxBlocks is the largest number of blocks a single query may return.
	maxBlocks = 100
	maxTxs    = 100
)

// NewStore returns a store that archives ledger blocks in Postgres.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type Store struct {
	db *sql.DB
}

// InsertBlock archives a block together with its transactions.
// This method returns ErrConflict if a block with the same index or hash is
// already archived.
func (s *Store) InsertBlock(ctx context.Context, b models.Block) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "cannot create transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blocks (block_index, block_hash, previous_hash, block_time, proof)
		VALUES ($1, $2, $3, $4, $5)
	`, int64(b.Index), b.Hash, b.PreviousHash, b.Timestamp, strconv.FormatUint(b.Proof, 10))
	if err != nil {
		return wrapPgErr(err, "insert block")
	}

	for i, t := range b.Transactions {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (block_id, position, sender, recipient, amount)
		VALUES ($1, $2, $3, $4, $5)
		`, int64(b.Index), i, t.Sender, t.Recipient, strconv.FormatUint(t.Amount, 10))
		if err != nil {
			return wrapPgErr(err, "insert transaction")
		}
	}

	return wrapPgErr(tx.Commit(), "commit block tx")
}

// LastNBlock returns up to limit blocks, newest first. When after is not zero
// only blocks with a smaller index are returned.
// ErrNotFound is returned if no blocks exist.
// ErrLimit is returned if allowed limit is exceeded
func (s *Store) LastNBlock(ctx context.Context, limit, after int) ([]*models.Block, error) {
	if limit > maxBlocks {
		return nil, errors.Wrapf(ErrLimit, "limit %d exceeded", maxBlocks)
	}

	query := psql().Select(blockColumns).From("blocks").OrderBy("block_index DESC").Limit(uint64(limit))
	if after != 0 {
		query = query.Where(sq.Lt{"block_index": after})
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "cannot select block")
	}
	defer rows.Close()

	var blocks []*models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, wrapPgErr(err, "cannot select block")
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "cannot select block")
	}
	if len(blocks) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "no blocks")
	}

	for _, b := range blocks {
		if err := s.loadTransactions(ctx, b); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

// LatestBlock returns the block with the greatest index. This method
// returns ErrNotFound if no block exist.
func (s *Store) LatestBlock(ctx context.Context) (*models.Block, error) {
	blocks, err := s.LastNBlock(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	return blocks[0], nil
}

// LoadBlock returns the block with the given index.
// This method returns ErrNotFound if no block exist.
func (s *Store) LoadBlock(ctx context.Context, index uint64) (*models.Block, error) {
	return s.loadBlockWhere(ctx, sq.Eq{"block_index": int64(index)})
}

// LoadBlockByHash returns the block with the given hex hash.
// This method returns ErrNotFound if no block exist.
func (s *Store) LoadBlockByHash(ctx context.Context, blockHash string) (*models.Block, error) {
	return s.loadBlockWhere(ctx, sq.Eq{"block_hash": blockHash})
}

func (s *Store) loadBlockWhere(ctx context.Context, pred sq.Eq) (*models.Block, error) {
	row := psql().Select(blockColumns).From("blocks").Where(pred).RunWith(s.db).QueryRowContext(ctx)
	b, err := scanBlock(row)
	if err != nil {
		err = castPgErr(err)
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrap(err, "no blocks")
		}
		return nil, errors.Wrap(err, "cannot select block")
	}
	if err := s.loadTransactions(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) loadTransactions(ctx context.Context, b *models.Block) error {
	txs, err := s.LoadTxsInBlock(ctx, b.Index)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	b.Transactions = txs
	return nil
}

// LoadTxsInBlock returns the transactions of a block in their block order.
// ErrNotFound is returned if the block holds none.
func (s *Store) LoadTxsInBlock(ctx context.Context, index uint64) ([]models.Transaction, error) {
	query := psql().Select(txColumns).From("transactions").
		Where(sq.Eq{"block_id": int64(index)}).
		OrderBy("position")
	return s.queryTxs(ctx, query)
}

// LoadTxsByParams returns at most 100 archived transactions matching the
// non empty parameters, oldest first.
func (s *Store) LoadTxsByParams(ctx context.Context, sender, recipient string) ([]models.Transaction, error) {
	query := psql().Select(txColumns).From("transactions").
		OrderBy("block_id", "position").
		Limit(maxTxs)

	if sender != "" {
		query = query.Where(sq.Eq{"sender": sender})
	}
	if recipient != "" {
		query = query.Where(sq.Eq{"recipient": recipient})
	}
	return s.queryTxs(ctx, query)
}

func (s *Store) queryTxs(ctx context.Context, query sq.SelectBuilder) ([]models.Transaction, error) {
	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, wrapPgErr(err, "cannot select txs")
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx     models.Transaction
			index  int64
			amount string
		)
		if err := rows.Scan(&index, &tx.Sender, &tx.Recipient, &amount); err != nil {
			return nil, wrapPgErr(err, "cannot select tx")
		}
		tx.BlockIndex = uint64(index)
		if tx.Amount, err = strconv.ParseUint(amount, 10, 64); err != nil {
			return nil, errors.Wrap(err, "amount")
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(err, "cannot select txs")
	}

	if len(txs) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "no txs")
	}
	return txs, nil
}

const (
	blockColumns = "block_index, block_hash, previous_hash, block_time, proof"
	txColumns    = "block_id, sender, recipient, amount"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func scanBlock(row sq.RowScanner) (*models.Block, error) {
	var (
		b     models.Block
		index int64
		proof string
	)
	if err := row.Scan(&index, &b.Hash, &b.PreviousHash, &b.Timestamp, &proof); err != nil {
		return nil, err
	}
	b.Index = uint64(index)

	var err error
	if b.Proof, err = strconv.ParseUint(proof, 10, 64); err != nil {
		return nil, errors.Wrap(err, "proof")
	}
	return &b, nil
}
