package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSamplesEmpty(t *testing.T) {
	_, _, err := DecodeSamples(nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

// Данные без контейнера трактуются как сырой PCM16 на 24 кГц.
func TestDecodeSamplesRawPCM(t *testing.T) {
	raw := make([]byte, 4)
	pos := int16(16384)
	neg := int16(-16384)
	binary.LittleEndian.PutUint16(raw[0:2], uint16(pos)) // 0.5
	binary.LittleEndian.PutUint16(raw[2:4], uint16(neg)) // -0.5

	samples, rate, err := DecodeSamples(raw)
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleRate, rate)
	require.Len(t, samples, 2)
	assert.InDelta(t, 0.5, samples[0], 1e-4)
	assert.InDelta(t, -0.5, samples[1], 1e-4)
}

// WAV-контейнер переживает цикл упаковки и декодирования: частота и сэмплы
// сохраняются с точностью квантования.
func TestWAVRoundTrip(t *testing.T) {
	original := []float32{0, 0.25, -0.25, 0.99, -0.99}
	wav := EncodeWAV(original, 16000)

	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Len(t, wav, 44+len(original)*2)

	samples, rate, err := DecodeSamples(wav)
	require.NoError(t, err)
	assert.Equal(t, 16000, rate)
	require.Len(t, samples, len(original))
	for i := range original {
		assert.InDelta(t, original[i], samples[i], 1e-3)
	}
}

// Сэмплы за пределами [-1, 1] ограничиваются при квантовании.
func TestEncodeWAVClamps(t *testing.T) {
	wav := EncodeWAV([]float32{2.0, -2.0}, DefaultSampleRate)

	samples, _, err := DecodeSamples(wav)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.InDelta(t, 1.0, samples[0], 1e-3)
	assert.InDelta(t, -1.0, samples[1], 1e-3)
}

// Заголовок без сигнатуры RIFF уходит по запасному пути, а не в ошибку.
func TestDecodeSamplesNotWAVFallsBack(t *testing.T) {
	// 44+ байта мусора без сигнатуры
	raw := make([]byte, 48)
	samples, rate, err := DecodeSamples(raw)
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleRate, rate)
	assert.Len(t, samples, 24)
}
