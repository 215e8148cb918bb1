package program

import "sort"

// Sample is one (time, value) pair of a single channel.
type Sample struct {
	Time  float64
	Value float64
}

// Interpolator evaluates a channel as a continuous piecewise-linear function of
// the minute-of-day. The day is periodic: the last sample connects to the first
// sample of the next day.
type Interpolator struct {
	ext []Sample
}

// NewInterpolator builds an interpolator from samples in any order.
func NewInterpolator(samples []Sample) Interpolator {
	if len(samples) == 0 {
		return Interpolator{}
	}
	pts := make([]Sample, len(samples))
	copy(pts, samples)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Time < pts[j].Time })

	ext := make([]Sample, 0, len(pts)+2)
	last, first := pts[len(pts)-1], pts[0]
	ext = append(ext, Sample{Time: last.Time - MinutesPerDay, Value: last.Value})
	ext = append(ext, pts...)
	ext = append(ext, Sample{Time: first.Time + MinutesPerDay, Value: first.Value})
	return Interpolator{ext: ext}
}

// Empty reports whether the interpolator has no samples.
func (in Interpolator) Empty() bool {
	return len(in.ext) == 0
}

// At returns the interpolated value at minute t. With no samples it is 0.
func (in Interpolator) At(t float64) float64 {
	if len(in.ext) == 0 {
		return 0
	}
	for i := 0; i < len(in.ext)-1; i++ {
		a, b := in.ext[i], in.ext[i+1]
		if t >= a.Time && t <= b.Time {
			span := b.Time - a.Time
			if span <= 0 {
				return a.Value
			}
			return a.Value + (b.Value-a.Value)*(t-a.Time)/span
		}
	}
	if t < in.ext[0].Time {
		return in.ext[0].Value
	}
	return in.ext[len(in.ext)-1].Value
}

// ChannelSamples extracts the samples of channel ch from rows.
func ChannelSamples(rows []Row, ch Channel) []Sample {
	samples := make([]Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, Sample{Time: float64(r.Time), Value: float64(r.Value(ch))})
	}
	return samples
}

// ChannelInterpolator builds the interpolator of channel ch over rows.
func ChannelInterpolator(rows []Row, ch Channel) Interpolator {
	return NewInterpolator(ChannelSamples(rows, ch))
}

// ChannelInterpolators builds one interpolator per channel.
func ChannelInterpolators(rows []Row) [NumChannels]Interpolator {
	var out [NumChannels]Interpolator
	for _, ch := range Channels {
		out[ch.Index()] = ChannelInterpolator(rows, ch)
	}
	return out
}

// InterpolateExcluding evaluates channel ch at minute over every row except the
// one identified by exclude.
func InterpolateExcluding(rows []Row, ch Channel, minute float64, exclude RowID) float64 {
	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !exclude.IsZero() && r.ID == exclude {
			continue
		}
		kept = append(kept, r)
	}
	return ChannelInterpolator(kept, ch).At(minute)
}
