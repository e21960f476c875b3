package audio

import (
	"io"
	"math"
)

// Stereo float32 LE: 8 bytes per frame.
const frameBytes = 8

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	o := i * frameBytes
	buf[o] = byte(v)
	buf[o+1] = byte(v >> 8)
	buf[o+2] = byte(v >> 16)
	buf[o+3] = byte(v >> 24)
	copy(buf[o+4:o+8], buf[o:o+4])
}

// softSat applies gentle tanh-like saturation with no hard clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/x
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// genCharge is the rising whine played when the beam opens.
func genCharge(rate int) []byte {
	n := int(0.6 * float64(rate))
	buf := make([]byte, n*frameBytes)
	seed := uint64(0xC0FFEE)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(rate)
		p := float64(i) / float64(n)
		freq := 180 + 900*p*p
		env := adsr(p, 0.05, 0.25, 0.7, 0.3)
		s := fm(t, freq, 2.01, 1.8*(1-p)) * env * 0.35
		s += lcg(&seed) * env * 0.04
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genPowerDown is the falling tone played when the beam closes.
func genPowerDown(rate int) []byte {
	n := int(0.45 * float64(rate))
	buf := make([]byte, n*frameBytes)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(rate)
		p := float64(i) / float64(n)
		freq := 520 * math.Exp(-p*2.2)
		env := adsr(p, 0.02, 0.2, 0.5, 0.6)
		s := fm(t, freq, 0.5, 1.2) * env * 0.3
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// soundReader plays a fixed buffer once.
type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// humReader is the endless beam hum: a detuned low FM pair with a slow
// amplitude pulse.
type humReader struct {
	rate float64
	t    float64
	seed uint64
}

func (h *humReader) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	dt := 1 / h.rate
	for i := 0; i < frames; i++ {
		pulse := 0.75 + 0.25*math.Sin(2*math.Pi*0.9*h.t)
		s := fm(h.t, 55, 1.5, 0.9)*0.30 + fm(h.t, 55.4, 2.0, 0.6)*0.22
		s += math.Sin(2*math.Pi*110*h.t) * 0.10
		s += lcg(&h.seed) * 0.015
		putStereoF32(p, i, softSat(s*pulse))
		h.t += dt
	}
	return frames * frameBytes, nil
}

// droneReader is the ambient pad under the whole scene.
type droneReader struct {
	rate float64
	t    float64
}

var droneChord = [...]float64{65.4, 98.0, 130.8, 196.0}

func (d *droneReader) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	dt := 1 / d.rate
	detunes := [3]float64{-0.003, 0, 0.004}
	for i := 0; i < frames; i++ {
		swell := 0.6 + 0.4*math.Sin(2*math.Pi*0.05*d.t)
		s := 0.0
		for _, f := range droneChord {
			for _, dn := range detunes {
				s += fm(d.t, f*(1+dn), 1.001, 0.4*swell) * 0.035
			}
		}
		putStereoF32(p, i, softSat(s*swell))
		d.t += dt
	}
	return frames * frameBytes, nil
}
