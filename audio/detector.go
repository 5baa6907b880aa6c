package audio

import (
	"os/exec"
	"strconv"

	"github.com/lixenwraith/bunny-coffee/parameter"
)

// lookPath is swapped in tests
var lookPath = exec.LookPath

// DetectBackend returns the first playback tool on PATH
// Priority: pacat > pw-cat > aplay > play (sox)
func DetectBackend() (*BackendConfig, error) {
	rate := strconv.Itoa(parameter.AudioSampleRate)
	channels := strconv.Itoa(parameter.AudioChannels)

	candidates := []BackendConfig{
		{Type: BackendPulse, Name: "pacat", Args: []string{
			"--raw", "--format=s16le", "--rate=" + rate, "--channels=" + channels,
			"--latency-msec=50", "--playback",
		}},
		{Type: BackendPipeWire, Name: "pw-cat", Args: []string{
			"--playback", "--format=s16", "--rate=" + rate, "--channels=" + channels,
			"--latency=50ms", "-",
		}},
		{Type: BackendALSA, Name: "aplay", Args: []string{
			"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", channels, "-q",
		}},
		{Type: BackendSoX, Name: "play", Args: []string{
			"-t", "raw", "-e", "signed", "-b", "16", "-c", channels, "-r", rate, "-", "-d", "-q",
		}},
	}

	for _, c := range candidates {
		if path, err := lookPath(c.Name); err == nil {
			c.Path = path
			return &c, nil
		}
	}
	return nil, ErrNoAudioBackend
}
