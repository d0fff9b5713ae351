// Package audio реализует декодирование и упаковку аудиоданных провайдера.
//
// Ответ синтеза речи не обязан быть самоописываемым: провайдер может вернуть
// как WAV-контейнер, так и голый поток PCM. Поэтому декодирование двухфазное:
// сначала попытка разобрать контейнер, затем интерпретация сырых байтов как
// little-endian PCM16 на фиксированной частоте 24 кГц.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultSampleRate — частота дискретизации потока PCM без контейнера.
const DefaultSampleRate = 24000

var (
	// ErrEmptyData возвращается для пустого входа.
	ErrEmptyData = errors.New("audio data is empty")
	// ErrNotWAV возвращается, когда данные не являются WAV-контейнером.
	ErrNotWAV = errors.New("data is not a RIFF/WAVE container")
)

// DecodeSamples декодирует аудиобайты в нормализованные сэмплы [-1.0, 1.0].
// Сначала пытается разобрать WAV-контейнер; если данные им не являются,
// трактует их как сырой little-endian PCM16 на частоте DefaultSampleRate.
func DecodeSamples(data []byte) ([]float32, int, error) {
	if len(data) == 0 {
		return nil, 0, ErrEmptyData
	}
	samples, rate, err := decodeWAV(data)
	if err == nil {
		return samples, rate, nil
	}
	if !errors.Is(err, ErrNotWAV) {
		return nil, 0, err
	}
	// Запасной путь: сырой PCM16 без контейнера
	samples = pcm16ToFloat(data)
	return samples, DefaultSampleRate, nil
}

// decodeWAV разбирает RIFF/WAVE контейнер с несжатым PCM16.
func decodeWAV(data []byte) ([]float32, int, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, ErrNotWAV
	}

	var sampleRate int
	var bitsPerSample int
	var pcm []byte

	// Обходим чанки: нужны 'fmt ' и 'data'
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("malformed fmt chunk: %d bytes", chunkSize)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, 0, fmt.Errorf("unsupported audio format: %d", audioFormat)
			}
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+chunkSize]
		}
		// Чанки выровнены по чётной границе
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	if sampleRate == 0 || pcm == nil {
		return nil, 0, errors.New("wav container is missing fmt or data chunk")
	}
	if bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported bits per sample: %d", bitsPerSample)
	}
	return pcm16ToFloat(pcm), sampleRate, nil
}

// pcm16ToFloat переводит little-endian PCM16 в нормализованные float32.
func pcm16ToFloat(pcm []byte) []float32 {
	n := len(pcm) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[2*i : 2*i+2]))
		samples[i] = float32(v) / 32768.0
	}
	return samples
}

// EncodeWAV упаковывает нормализованные сэмплы в моно WAV-контейнер PCM16,
// чтобы потребитель получил самоописываемое аудио.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, 44+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // моно
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2)) // байт в секунду
	binary.LittleEndian.PutUint16(buf[32:34], 2)                    // выравнивание блока
	binary.LittleEndian.PutUint16(buf[34:36], 16)                   // бит на сэмпл

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	for i, s := range samples {
		// Ограничиваем диапазон перед квантованием
		if s > 1.0 {
			s = 1.0
		}
		if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767.0)
		binary.LittleEndian.PutUint16(buf[44+2*i:46+2*i], uint16(v))
	}
	return buf
}
