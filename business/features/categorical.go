package features

// otherCategory buckets rare categories before encoding.
const otherCategory = "Other"

// labelEncoder assigns stable integer codes per category. Codes persist
// for the encoder's lifetime so repeated requests encode consistently.
type labelEncoder struct {
	classes map[string]int
}

func newLabelEncoder() *labelEncoder {
	return &labelEncoder{classes: make(map[string]int)}
}

func (e *labelEncoder) encode(category string) int {
	if code, ok := e.classes[category]; ok {
		return code
	}
	code := len(e.classes)
	e.classes[category] = code
	return code
}

// bucketRare replaces categories occurring fewer than minFrequency times
// within the batch with "Other". Frequency is batch-relative, so a
// single-record batch buckets every category.
func bucketRare(values []string, minFrequency int) []string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	out := make([]string, len(values))
	for i, v := range values {
		if counts[v] < minFrequency {
			out[i] = otherCategory
		} else {
			out[i] = v
		}
	}
	return out
}
