package features

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"myLeadMarket/business/vertical"
	"myLeadMarket/domain"
)

// Engineer transforms raw lead records into fixed-layout numeric
// vectors for one vertical. Per-column scalers, encoders, and
// vectorizers fit on the first batch they see and are reused for every
// later call, so repeated requests transform consistently.
type Engineer struct {
	cfg     *vertical.VerticalConfig
	cache   TransformCache
	tracker *ImportanceTracker

	mu          sync.Mutex
	scalers     map[string]*columnScaler
	encoders    map[string]*labelEncoder
	vectorizers map[string]textVectorizer
}

// NewEngineer builds an engineer for the vertical. cache may be nil to
// disable transform memoization; tracker may be nil for a private one.
func NewEngineer(cfg *vertical.VerticalConfig, cache TransformCache, tracker *ImportanceTracker) *Engineer {
	if tracker == nil {
		tracker = NewImportanceTracker()
	}
	return &Engineer{
		cfg:         cfg,
		cache:       cache,
		tracker:     tracker,
		scalers:     make(map[string]*columnScaler),
		encoders:    make(map[string]*labelEncoder),
		vectorizers: make(map[string]textVectorizer),
	}
}

// VectorWidth is the fixed feature-vector width for this vertical:
// numerical, categorical, then one 100-wide block per text column.
func (e *Engineer) VectorWidth() int {
	cfg := e.cfg.Snapshot()
	return len(cfg.NumericalFeatures) + len(cfg.CategoricalFeatures) + textBlockWidth*len(cfg.TextFeatures)
}

// TransformOne transforms a single lead record.
func (e *Engineer) TransformOne(record domain.LeadRecord, wantImportance bool) ([]float64, map[string]float64, error) {
	rows, importance, err := e.Transform([]domain.LeadRecord{record}, wantImportance)
	if err != nil {
		return nil, nil, err
	}
	return rows[0], importance, nil
}

// Transform turns a batch of lead records into feature vectors. Columns
// are grouped numerical, categorical, text, each block ordered by the
// config's feature-name list.
func (e *Engineer) Transform(records []domain.LeadRecord, wantImportance bool) ([][]float64, map[string]float64, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no records to transform")
	}

	cfg := e.cfg.Snapshot()

	if err := validateColumns(cfg, records); err != nil {
		return nil, nil, err
	}

	var key string
	cacheable := e.cache != nil
	if cacheable {
		var ok bool
		key, ok = cacheKey(e.cfg.Vertical(), records)
		cacheable = ok
		if cacheable {
			if hit, found := e.cache.Get(key); found {
				return hit.Features, hit.Importance, nil
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	numerical, err := e.transformNumerical(cfg, records)
	if err != nil {
		return nil, nil, err
	}

	categorical := e.transformCategorical(cfg, records)
	text := e.transformText(cfg, records)

	width := len(cfg.NumericalFeatures) + len(cfg.CategoricalFeatures) + textBlockWidth*len(cfg.TextFeatures)
	rows := make([][]float64, len(records))
	for i := range records {
		row := make([]float64, 0, width)
		row = append(row, numerical[i]...)
		row = append(row, categorical[i]...)
		row = append(row, text[i]...)
		rows[i] = row
	}

	importance := map[string]float64{}
	if wantImportance {
		importance = e.computeImportance(rows)
	}

	if cacheable {
		e.cache.Set(key, CachedTransform{Features: rows, Importance: importance})
	}

	return rows, importance, nil
}

func (e *Engineer) transformNumerical(cfg vertical.Config, records []domain.LeadRecord) ([][]float64, error) {
	n := len(records)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, len(cfg.NumericalFeatures))
	}

	minFloor := cfg.MinValues
	maxCeil := cfg.MaxValues

	for col, name := range cfg.NumericalFeatures {
		values := make([]float64, n)
		present := make([]bool, n)

		for i, record := range records {
			raw := record[name]
			if raw == nil {
				continue
			}
			v, ok := parseNumeric(raw)
			if !ok {
				return nil, fmt.Errorf("column %s has non-numeric value %v", name, raw)
			}
			values[i] = v
			present[i] = true
		}

		// Impute with the batch mean, never a stored training mean.
		mean := batchMean(values, present)
		for i := range values {
			if !present[i] {
				values[i] = mean
			}
		}

		if floor, ok := minFloor[name]; ok {
			for _, v := range values {
				if v < floor {
					return nil, fmt.Errorf("%w: column %s value %v below %v", ErrOutOfRange, name, v, floor)
				}
			}
		}
		if ceil, ok := maxCeil[name]; ok {
			for _, v := range values {
				if v > ceil {
					return nil, fmt.Errorf("%w: column %s value %v above %v", ErrOutOfRange, name, v, ceil)
				}
			}
		}

		scaler, ok := e.scalers[name]
		if !ok {
			scaler = newColumnScaler(cfg.Preprocessing.Scaling)
			e.scalers[name] = scaler
		}
		scaler.fit(values)

		for i, v := range values {
			out[i][col] = scaler.transform(v)
		}
	}

	return out, nil
}

func (e *Engineer) transformCategorical(cfg vertical.Config, records []domain.LeadRecord) [][]float64 {
	n := len(records)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, len(cfg.CategoricalFeatures))
	}

	minFreq := cfg.MinCategoryFrequency
	if minFreq <= 0 {
		minFreq = e.cfg.MinCategoryFrequency()
	}

	for col, name := range cfg.CategoricalFeatures {
		values := make([]string, n)
		for i, record := range records {
			values[i] = asCategory(record[name])
		}

		bucketed := bucketRare(values, minFreq)

		encoder, ok := e.encoders[name]
		if !ok {
			encoder = newLabelEncoder()
			e.encoders[name] = encoder
		}

		for i, v := range bucketed {
			out[i][col] = float64(encoder.encode(v))
		}
	}

	return out
}

func (e *Engineer) transformText(cfg vertical.Config, records []domain.LeadRecord) [][]float64 {
	n := len(records)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, 0, textBlockWidth*len(cfg.TextFeatures))
	}

	for _, name := range cfg.TextFeatures {
		docs := make([]string, n)
		for i, record := range records {
			docs[i] = cleanText(asText(record[name]))
		}

		vec, ok := e.vectorizers[name]
		if !ok {
			// Strategy is data-dependent: huge vocabularies hash into a
			// fixed dimension, bounded ones get TF-IDF. Both are 100 wide.
			if distinctTokens(docs) > hashingVocabularyLimit {
				vec = newHashingVectorizer(textBlockWidth)
			} else {
				tv := newTFIDFVectorizer(textBlockWidth)
				tv.fit(docs)
				vec = tv
			}
			e.vectorizers[name] = vec
		} else if tv, isTFIDF := vec.(*tfidfVectorizer); isTFIDF && !tv.fitted() {
			tv.fit(docs)
		}

		for i, doc := range docs {
			out[i] = append(out[i], vec.transform(doc)...)
		}
	}

	return out
}

// computeImportance is an extension point. No importance calculation
// method is defined yet, so it reports nothing.
func (e *Engineer) computeImportance(_ [][]float64) map[string]float64 {
	return map[string]float64{}
}

func validateColumns(cfg vertical.Config, records []domain.LeadRecord) error {
	required := make([]string, 0, len(cfg.NumericalFeatures)+len(cfg.CategoricalFeatures)+len(cfg.TextFeatures))
	required = append(required, cfg.NumericalFeatures...)
	required = append(required, cfg.CategoricalFeatures...)
	required = append(required, cfg.TextFeatures...)

	missing := make(map[string]struct{})
	for _, record := range records {
		for _, name := range required {
			if _, ok := record[name]; !ok {
				missing[name] = struct{}{}
			}
		}
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(names, ", "))
	}

	return nil
}

func parseNumeric(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func asCategory(val any) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}

func asText(val any) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}
