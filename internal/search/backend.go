package search

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
)

// Backend builds an Index over lower-cased haystacks.
type Backend interface {
	Name() string
	Build(haystacks []string) (Index, error)
}

// BackendFor maps a configured backend name to a Backend. Unknown names
// select the linear scan.
func BackendFor(name string, bleveThreshold int) Backend {
	switch name {
	case "bleve":
		return Bleve()
	case "auto":
		return Auto(bleveThreshold)
	default:
		return Scan()
	}
}

// Scan returns the linear-scan backend.
func Scan() Backend { return scanBackend{} }

type scanBackend struct{}

func (scanBackend) Name() string { return "scan" }

func (scanBackend) Build(haystacks []string) (Index, error) {
	return &scanIndex{haystacks: haystacks}, nil
}

type scanIndex struct {
	haystacks []string
}

func (s *scanIndex) Lookup(needle string, limit int) ([]int, error) {
	return scanPositions(s.haystacks, needle, limit), nil
}

func (s *scanIndex) Close() error { return nil }

func scanPositions(haystacks []string, needle string, limit int) []int {
	var out []int
	for i, h := range haystacks {
		if strings.Contains(h, needle) {
			out = append(out, i)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Auto picks bleve for catalogs larger than threshold and the scan otherwise.
func Auto(threshold int) Backend { return autoBackend{threshold: threshold} }

type autoBackend struct {
	threshold int
}

func (a autoBackend) Name() string { return "auto" }

func (a autoBackend) Build(haystacks []string) (Index, error) {
	if len(haystacks) > a.threshold {
		return Bleve().Build(haystacks)
	}
	return Scan().Build(haystacks)
}

// Bleve returns a backend keeping an in-memory bleve index over the
// haystacks. Each haystack is indexed as a single keyword term and queried
// with a *needle* wildcard; candidates are re-checked with a substring test
// and returned in catalog order.
func Bleve() Backend { return bleveBackend{} }

type bleveBackend struct{}

const haystackField = "text"

func (bleveBackend) Name() string { return "bleve" }

func (bleveBackend) Build(haystacks []string) (Index, error) {
	textMapping := bleve.NewTextFieldMapping()
	textMapping.Analyzer = keyword.Name
	textMapping.Store = false
	textMapping.IncludeInAll = false
	textMapping.IncludeTermVectors = false

	docMapping := bleve.NewDocumentStaticMapping()
	docMapping.AddFieldMappingsAt(haystackField, textMapping)

	mapping := bleve.NewIndexMapping()
	mapping.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}

	batch := idx.NewBatch()
	for i, h := range haystacks {
		doc := map[string]interface{}{haystackField: flattenLines(h)}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing page %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("writing bleve batch: %w", err)
	}

	return &bleveIndex{index: idx, haystacks: haystacks}, nil
}

type bleveIndex struct {
	index     bleve.Index
	haystacks []string
}

func (b *bleveIndex) Lookup(needle string, limit int) ([]int, error) {
	if len(b.haystacks) == 0 {
		return nil, nil
	}
	// Wildcard metacharacters and line breaks can't be expressed in the
	// keyword term query; scan instead.
	if strings.ContainsAny(needle, "*?\r\n") {
		return scanPositions(b.haystacks, needle, limit), nil
	}

	q := bleve.NewWildcardQuery("*" + needle + "*")
	q.SetField(haystackField)
	req := bleve.NewSearchRequestOptions(q, len(b.haystacks), 0, false)
	res, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	positions := make([]int, 0, len(res.Hits))
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(b.haystacks) {
			continue
		}
		if strings.Contains(b.haystacks[pos], needle) {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)
	if len(positions) > limit {
		positions = positions[:limit]
	}
	return positions, nil
}

func (b *bleveIndex) Close() error {
	return b.index.Close()
}

func flattenLines(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
