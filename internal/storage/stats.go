package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Stats contains statistics about the active generation.
type Stats struct {
	// Generation is the committed generation the stats describe.
	Generation Generation `json:"generation"`
	// Terms is the number of distinct terms per indexed field.
	Terms map[string]int `json:"terms"`
	// AvgFieldLength is the mean number of terms per section for each indexed field.
	AvgFieldLength map[string]float64 `json:"avg_field_length"`
	// ContentTerms summarizes the content length of sections, in terms.
	ContentTerms LengthStats `json:"content_terms"`
}

// LengthStats contains distribution statistics of section lengths.
type LengthStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Stats computes statistics for the active generation.
// Returns ErrNotFound if no generation has been committed.
func (s *IndexStore) Stats(ctx context.Context) (*Stats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	gen, err := activeGeneration(ctx, tx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Generation:     *gen,
		Terms:          make(map[string]int, len(IndexedFields)),
		AvgFieldLength: make(map[string]float64, len(IndexedFields)),
	}

	rows, err := tx.QueryContext(ctx, "SELECT field, COUNT(DISTINCT term) FROM postings GROUP BY field")
	if err != nil {
		return nil, fmt.Errorf("failed to query term counts: %w", err)
	}
	for rows.Next() {
		var field string
		var count int
		if err := rows.Scan(&field, &count); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan term count: %w", err)
		}
		stats.Terms[field] = count
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, field := range IndexedFields {
		column, err := lengthColumn(field)
		if err != nil {
			return nil, err
		}
		var avg *float64
		if err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT AVG(%s) FROM sections", column)).Scan(&avg); err != nil {
			return nil, fmt.Errorf("failed to query average %s length: %w", field, err)
		}
		if avg != nil {
			stats.AvgFieldLength[field] = math.Round(*avg*100) / 100
		}
	}

	lengthRows, err := tx.QueryContext(ctx, "SELECT content_len FROM sections")
	if err != nil {
		return nil, fmt.Errorf("failed to query content lengths: %w", err)
	}
	defer func() {
		_ = lengthRows.Close()
	}()

	var lengths []int
	for lengthRows.Next() {
		var n int
		if err := lengthRows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan content length: %w", err)
		}
		lengths = append(lengths, n)
	}
	if err := lengthRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	stats.ContentTerms = computeLengthStats(lengths)

	return stats, nil
}

// computeLengthStats computes min, max, mean, and p95 from lengths.
func computeLengthStats(lengths []int) LengthStats {
	if len(lengths) == 0 {
		return LengthStats{}
	}

	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	sum := 0
	for _, n := range lengths {
		sum += n
	}
	mean := float64(sum) / float64(len(lengths))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return LengthStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
