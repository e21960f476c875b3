package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"comet/internal/game"
)

func frameAt(buf []byte, i int) (float32, float32) {
	l := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*frameBytes:]))
	r := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*frameBytes+4:]))
	return l, r
}

func checkSamples(t *testing.T, name string, buf []byte) {
	t.Helper()
	if len(buf)%frameBytes != 0 {
		t.Fatalf("%s: %d bytes is not whole frames", name, len(buf))
	}
	loud := false
	for i := 0; i < len(buf)/frameBytes; i++ {
		l, r := frameAt(buf, i)
		if l != r {
			t.Fatalf("%s frame %d: channels differ %v/%v", name, i, l, r)
		}
		if math.IsNaN(float64(l)) || l < -1 || l > 1 {
			t.Fatalf("%s frame %d: sample %v out of range", name, i, l)
		}
		if math.Abs(float64(l)) > 0.01 {
			loud = true
		}
	}
	if !loud {
		t.Errorf("%s: silent", name)
	}
}

func TestOneShotSounds(t *testing.T) {
	charge := genCharge(44100)
	if want := int(0.6*44100) * frameBytes; len(charge) != want {
		t.Errorf("charge: %d bytes, want %d", len(charge), want)
	}
	checkSamples(t, "charge", charge)
	checkSamples(t, "powerdown", genPowerDown(22050))
}

func TestLoopReadersFillBuffer(t *testing.T) {
	readers := map[string]io.Reader{
		"hum":   &humReader{rate: 44100, seed: 1},
		"drone": &droneReader{rate: 44100},
	}
	for name, r := range readers {
		buf := make([]byte, 4096*frameBytes+3)
		n, err := r.Read(buf)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if n != 4096*frameBytes {
			t.Errorf("%s: read %d bytes, want whole frames only", name, n)
		}
		checkSamples(t, name, buf[:n])
	}
}

func TestSoundReaderEOF(t *testing.T) {
	r := &soundReader{data: []byte{1, 2, 3}}
	buf := make([]byte, 2)
	if n, _ := r.Read(buf); n != 2 {
		t.Errorf("Expected 2 bytes, got %d", n)
	}
	if n, _ := r.Read(buf); n != 1 {
		t.Errorf("Expected 1 byte, got %d", n)
	}
	if _, err := r.Read(buf); err != io.EOF {
		t.Errorf("Expected EOF, got %v", err)
	}
}

func TestADSR(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.05, 0.5},
		{0.1, 1},
		{0.5, 0.6},
		{1, 0},
	}
	for _, tt := range tests {
		if got := adsr(tt.p, 0.1, 0.2, 0.6, 0.3); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("adsr(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSoftSatBounded(t *testing.T) {
	for _, x := range []float64{-100, -2, -1, 0, 0.5, 1, 3, 1e6} {
		if y := softSat(x); y < -1 || y > 1 {
			t.Errorf("softSat(%v) = %v", x, y)
		}
	}
}

func TestNilSystemIsSilent(t *testing.T) {
	var s *System
	bus := game.NewEventBus()
	s.Attach(bus)
	s.StartHum()
	s.StopHum()
	s.StartDrone()
	s.Close()
	bus.Emit(game.Event{Type: game.EventFiringStarted})
}
