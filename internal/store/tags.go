package store

import (
    "context"
    "time"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5/pgxpool"
)

// Tags records shipping tags created on the carrier WS.
//
// Expected table:
//
//     CREATE TABLE shipping_tags (
//         id uuid PRIMARY KEY,
//         store_id integer NOT NULL,
//         order_id text NOT NULL,
//         service text NOT NULL,
//         response text,
//         created_at timestamptz NOT NULL
//     );
type Tags struct {
    db *pgxpool.Pool
}

func NewTags(db *pgxpool.Pool) *Tags {
    return &Tags{db: db}
}

// Record inserts one created tag. A nil receiver or pool is a no-op, so the
// bridge also runs without a database.
func (t *Tags) Record(ctx context.Context, storeID int, orderID, service string, response []byte) error {
    if t == nil || t.db == nil {
        return nil
    }
    _, err := t.db.Exec(ctx, `
        INSERT INTO shipping_tags (id, store_id, order_id, service, response, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, uuid.New(), storeID, orderID, service, string(response), time.Now().UTC())
    return err
}
