package dispute

// QualitySampler is a reproducible pseudo-random classifier: the same order id
// always lands in the same bucket, so fixtures and demos are stable across
// restarts. It is not a quality model.
type QualitySampler struct {
	Modulus int64
}

func NewQualitySampler() QualitySampler {
	return QualitySampler{Modulus: 5}
}

// Hash is a 32-bit rolling multiply-add over the UTF-8 bytes of s,
// h = h*31 + b with int32 wraparound, returned as an absolute value.
func Hash(s string) int64 {
	var h int32
	for i := 0; i < len(s); i++ {
		h = h*31 + int32(s[i])
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return abs
}

// Sampled reports whether the order falls in the quality-variance sample.
func (q QualitySampler) Sampled(orderID string) bool {
	if q.Modulus <= 0 {
		return false
	}
	return Hash(orderID)%q.Modulus == 0
}
