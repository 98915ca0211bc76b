package history

import (
	"context"
	"encoding/json"
	"fmt"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// PostgresStore persists history through the shared SQL runner. Outputs and
// parameters are stored as jsonb columns.
type PostgresStore struct {
	sql infra.SQLExecutor
}

func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]domain.HistoryItem, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListHistory, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var items []domain.HistoryItem
	for rows.Next() {
		var item domain.HistoryItem
		var outputs, parameters []byte
		if err := rows.Scan(&item.ID, &item.Type, &item.Prompt, &outputs, &parameters, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		if err := json.Unmarshal(outputs, &item.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs: %w", err)
		}
		if len(parameters) > 0 {
			if err := json.Unmarshal(parameters, &item.Parameters); err != nil {
				return nil, fmt.Errorf("decode parameters: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) Append(ctx context.Context, userID string, item domain.HistoryItem) error {
	outputs, err := json.Marshal(item.Outputs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}
	parameters, err := json.Marshal(item.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	_, err = s.sql.Exec(ctx, sqlinline.QAppendHistory,
		item.ID, userID, string(item.Type), item.Prompt, outputs, parameters, domain.HistoryLimit)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, itemID string) error {
	tag, err := s.sql.Exec(ctx, sqlinline.QDeleteHistoryItem, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete history item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHistoryItemNotFound
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, userID string) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QClearHistory, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

var _ domain.HistoryStore = (*PostgresStore)(nil)
