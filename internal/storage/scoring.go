package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
)

// BM25F parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
	// PhraseBoost scales the bonus for query terms found next to each other.
	PhraseBoost = 0.5
	// idBatchSize bounds the number of bound parameters per IN (...) query.
	idBatchSize = 500
)

// Occur says how a clause participates in matching.
type Occur int

const (
	// Should clauses make a section a candidate and add to its score.
	Should Occur = iota
	// Must clauses have to match for a section to be returned.
	Must
	// MustNot clauses exclude every section they match.
	MustNot
)

// Clause is one unit of a parsed query. A clause with several terms is a
// phrase: its terms must appear at consecutive positions in one field.
type Clause struct {
	Terms []string // Normalized terms
	Field string   // Restricts the clause to one field; "" means the request fields
	Occur Occur
}

// IsPhrase reports whether the clause needs adjacent terms.
func (c Clause) IsPhrase() bool {
	return len(c.Terms) > 1
}

// SearchRequest is a multi-field query against the index.
type SearchRequest struct {
	Fields  []string // Fields searched by unrestricted clauses
	Clauses []Clause
	Limit   int
}

type posting struct {
	frequency int
	positions []int
}

// fieldPostings maps term -> section id -> posting for one field.
type fieldPostings map[string]map[int64]posting

type fieldStats struct {
	avgLength float64
	lengths   map[int64]int
}

// Search scores sections with BM25F summed over the fields each clause targets.
// All reads run in one transaction so they observe a single committed generation.
func (s *IndexStore) Search(ctx context.Context, req SearchRequest) ([]ScoredSection, error) {
	for _, f := range req.Fields {
		if !IsIndexedField(f) {
			return nil, fmt.Errorf("field %q is not indexed", f)
		}
	}
	clauses := make([]Clause, 0, len(req.Clauses))
	for _, c := range req.Clauses {
		if len(c.Terms) == 0 {
			continue
		}
		if c.Field != "" && !IsIndexedField(c.Field) {
			return nil, fmt.Errorf("field %q is not indexed", c.Field)
		}
		clauses = append(clauses, c)
	}
	req.Clauses = clauses
	if req.Limit <= 0 || len(req.Clauses) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM sections").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count sections: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	// Collect the terms needed per field.
	wanted := make(map[string]map[string]struct{})
	for _, c := range req.Clauses {
		for _, field := range clauseFields(c, req.Fields) {
			if wanted[field] == nil {
				wanted[field] = make(map[string]struct{})
			}
			for _, t := range c.Terms {
				wanted[field][t] = struct{}{}
			}
		}
	}

	postings := make(map[string]fieldPostings, len(wanted))
	candidates := make(map[int64]struct{})
	for field, terms := range wanted {
		fp, err := loadPostings(ctx, tx, field, terms)
		if err != nil {
			return nil, err
		}
		postings[field] = fp
		for _, bySection := range fp {
			for id := range bySection {
				candidates[id] = struct{}{}
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	stats := make(map[string]*fieldStats, len(postings))
	for field := range postings {
		fs, err := loadFieldStats(ctx, tx, field, ids)
		if err != nil {
			return nil, err
		}
		stats[field] = fs
	}

	sc := &scorer{
		total:    float64(total),
		postings: postings,
		stats:    stats,
		fields:   req.Fields,
	}

	type hit struct {
		id    int64
		score float64
	}
	var hits []hit
	for _, id := range ids {
		score, ok := sc.score(id, req.Clauses)
		if !ok {
			continue
		}
		hits = append(hits, hit{id: id, score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].id < hits[j].id
	})
	if len(hits) > req.Limit {
		hits = hits[:req.Limit]
	}
	if len(hits) == 0 {
		return nil, nil
	}

	hitIDs := make([]int64, len(hits))
	for i, h := range hits {
		hitIDs[i] = h.id
	}
	records, err := loadSections(ctx, tx, hitIDs)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredSection, 0, len(hits))
	for _, h := range hits {
		rec, ok := records[h.id]
		if !ok {
			continue
		}
		results = append(results, ScoredSection{Section: rec, Score: h.score})
	}
	return results, nil
}

// clauseFields returns the fields a clause is evaluated against.
func clauseFields(c Clause, fields []string) []string {
	if c.Field != "" {
		return []string{c.Field}
	}
	return fields
}

type scorer struct {
	total    float64
	postings map[string]fieldPostings
	stats    map[string]*fieldStats
	fields   []string
}

// score evaluates all clauses for one section. ok is false when the section
// is excluded or matches no positive clause.
func (sc *scorer) score(id int64, clauses []Clause) (float64, bool) {
	var score float64
	positive := false

	for _, c := range clauses {
		var clauseScore float64
		matched := false
		for _, field := range clauseFields(c, sc.fields) {
			s, ok := sc.clauseScore(id, field, c)
			if ok {
				matched = true
				clauseScore += s
			}
		}

		switch c.Occur {
		case MustNot:
			if matched {
				return 0, false
			}
		case Must:
			if !matched {
				return 0, false
			}
			positive = true
			score += clauseScore
		default:
			if matched {
				positive = true
				score += clauseScore
			}
		}
	}
	if !positive {
		return 0, false
	}

	score += sc.proximityBonus(id, clauses)
	return score, true
}

// clauseScore scores one clause in one field.
func (sc *scorer) clauseScore(id int64, field string, c Clause) (float64, bool) {
	fp := sc.postings[field]
	if fp == nil {
		return 0, false
	}

	if !c.IsPhrase() {
		p, ok := fp[c.Terms[0]][id]
		if !ok {
			return 0, false
		}
		return sc.bm25(field, c.Terms[0], id, p.frequency), true
	}

	occurrences := sc.adjacent(fp, id, c.Terms)
	if occurrences == 0 {
		return 0, false
	}
	var s float64
	minIDF := math.Inf(1)
	for _, t := range c.Terms {
		p := fp[t][id]
		s += sc.bm25(field, t, id, p.frequency)
		minIDF = math.Min(minIDF, sc.idf(field, t))
	}
	return s + PhraseBoost*minIDF*float64(occurrences), true
}

// proximityBonus rewards consecutive single-term clauses that occur next to
// each other, so an exact phrase never ranks below the same terms scattered.
func (sc *scorer) proximityBonus(id int64, clauses []Clause) float64 {
	var bonus float64
	for i := 0; i+1 < len(clauses); i++ {
		a, b := clauses[i], clauses[i+1]
		if a.Occur == MustNot || b.Occur == MustNot || a.IsPhrase() || b.IsPhrase() || a.Field != b.Field {
			continue
		}
		pair := []string{a.Terms[0], b.Terms[0]}
		for _, field := range clauseFields(a, sc.fields) {
			fp := sc.postings[field]
			if fp == nil {
				continue
			}
			if n := sc.adjacent(fp, id, pair); n > 0 {
				minIDF := math.Min(sc.idf(field, pair[0]), sc.idf(field, pair[1]))
				bonus += PhraseBoost * minIDF * float64(n)
			}
		}
	}
	return bonus
}

// adjacent counts the positions where terms occur consecutively in order.
func (sc *scorer) adjacent(fp fieldPostings, id int64, terms []string) int {
	sets := make([]map[int]struct{}, len(terms))
	for i, t := range terms {
		p, ok := fp[t][id]
		if !ok {
			return 0
		}
		sets[i] = make(map[int]struct{}, len(p.positions))
		for _, pos := range p.positions {
			sets[i][pos] = struct{}{}
		}
	}

	count := 0
	for _, start := range fp[terms[0]][id].positions {
		match := true
		for i := 1; i < len(terms); i++ {
			if _, ok := sets[i][start+i]; !ok {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}

func (sc *scorer) idf(field, term string) float64 {
	df := float64(len(sc.postings[field][term]))
	return math.Log(sc.total/(df+1)) + 1
}

func (sc *scorer) bm25(field, term string, id int64, tf int) float64 {
	fs := sc.stats[field]
	norm := 1.0
	if fs != nil && fs.avgLength > 0 {
		norm = (1 - bm25B) + bm25B*float64(fs.lengths[id])/fs.avgLength
	}
	f := float64(tf)
	return sc.idf(field, term) * (f * (bm25K1 + 1)) / (f + bm25K1*norm)
}

func loadPostings(ctx context.Context, tx *sql.Tx, field string, terms map[string]struct{}) (fieldPostings, error) {
	args := make([]any, 0, len(terms)+1)
	args = append(args, field)
	for t := range terms {
		args = append(args, t)
	}

	query := fmt.Sprintf(
		"SELECT term, section_id, frequency, positions FROM postings WHERE field = ? AND term IN (%s)",
		placeholders(len(terms)),
	)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	fp := make(fieldPostings)
	for rows.Next() {
		var term, positions string
		var id int64
		var freq int
		if err := rows.Scan(&term, &id, &freq, &positions); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		pos, err := decodePositions(positions)
		if err != nil {
			return nil, err
		}
		if fp[term] == nil {
			fp[term] = make(map[int64]posting)
		}
		fp[term][id] = posting{frequency: freq, positions: pos}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return fp, nil
}

func loadFieldStats(ctx context.Context, tx *sql.Tx, field string, ids []int64) (*fieldStats, error) {
	column, err := lengthColumn(field)
	if err != nil {
		return nil, err
	}

	fs := &fieldStats{lengths: make(map[int64]int, len(ids))}
	var avg sql.NullFloat64
	if err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT AVG(%s) FROM sections", column)).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to query average %s length: %w", field, err)
	}
	fs.avgLength = avg.Float64

	for start := 0; start < len(ids); start += idBatchSize {
		batch := ids[start:min(start+idBatchSize, len(ids))]
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		rows, err := tx.QueryContext(ctx,
			fmt.Sprintf("SELECT id, %s FROM sections WHERE id IN (%s)", column, placeholders(len(batch))),
			args...,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s lengths: %w", field, err)
		}
		for rows.Next() {
			var id int64
			var length int
			if err := rows.Scan(&id, &length); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan length: %w", err)
			}
			fs.lengths[id] = length
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, fmt.Errorf("row iteration error: %w", err)
		}
	}
	return fs, nil
}

func loadSections(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]SectionRecord, error) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf("SELECT id, path, title, section_title, content, section_idx FROM sections WHERE id IN (%s)", placeholders(len(ids))),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make(map[int64]SectionRecord, len(ids))
	for rows.Next() {
		var rec SectionRecord
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Title, &rec.SectionTitle, &rec.Content, &rec.SectionIdx); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		out[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
