package cliflags_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/cutoff"
	"github.com/farcloser/cutoff/internal/audit/spectral"
	"github.com/farcloser/cutoff/internal/cliflags"
	"github.com/farcloser/cutoff/internal/source"
)

func parse(t *testing.T, args ...string) (cutoff.Options, source.Options, error) {
	t.Helper()

	var (
		opts cutoff.Options
		load source.Options
	)

	cmd := &cli.Command{
		Name:  "test",
		Flags: slices.Concat(cliflags.Decoder(), cliflags.Analysis()),
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error

			opts, err = cliflags.Options(cmd)
			if err != nil {
				return err
			}

			load, err = cliflags.Source(cmd, opts)

			return err
		},
	}

	err := cmd.Run(context.Background(), append([]string{"test"}, args...))

	return opts, load, err
}

func TestDefaults(t *testing.T) {
	opts, load, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, cutoff.DefaultOptions(), opts)
	assert.Equal(t, source.DecoderAuto, load.Decoder)
	assert.Equal(t, 0, load.Stream)
	assert.Equal(t, 30*time.Second, load.MaxDuration)
}

func TestOverrides(t *testing.T) {
	opts, load, err := parse(t,
		"--max-frames", "5",
		"--drop", "2",
		"--flat-ratio", "1.5",
		"--channel=-1",
		"--fft", "go-dsp",
		"--decoder", "wav",
		"--stream", "2",
	)
	require.NoError(t, err)

	assert.Equal(t, 5, opts.MaxFrames)
	assert.InDelta(t, 2.0, opts.DropThreshold, 1e-12)
	assert.InDelta(t, 1.5, opts.FlatRatio, 1e-12)
	assert.Equal(t, cutoff.ChannelMix, opts.Channel)
	assert.Equal(t, spectral.BackendGoDSP, opts.Backend)

	assert.Equal(t, source.DecoderWav, load.Decoder)
	assert.Equal(t, 2, load.Stream)
	assert.Equal(t, cutoff.ChannelMix, load.Channel)
	assert.Equal(t, 5*time.Second, load.MaxDuration)
}

func TestInvalidValues(t *testing.T) {
	_, _, err := parse(t, "--fft", "fftw")
	require.Error(t, err)

	_, _, err = parse(t, "--decoder", "sox")
	require.Error(t, err)
}
