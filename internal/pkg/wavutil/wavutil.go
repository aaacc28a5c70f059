// Package wavutil 读写 RIFF/WAVE 文件头。
//
// 时间轴引擎需要每行旁白的精确时长（帧数/采样率），
// 这里直接解析文件头而不是每次调用 ffprobe 起进程。
package wavutil

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Info WAV 文件的基本信息
type Info struct {
	SampleRate    int     // 采样率 (Hz)
	Channels      int     // 声道数
	BitsPerSample int     // 位深
	Frames        int     // 采样帧数
	Duration      float64 // 时长（秒，保留两位小数）
}

// ReadInfo 解析 WAV 文件头
func ReadInfo(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()
	return DecodeInfo(f)
}

// DecodeInfo 从流中解析 WAV 头。
// 按 chunk 顺序扫描，兼容 fmt/data 之间存在其他 chunk 的文件。
func DecodeInfo(r io.Reader) (*Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("read riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	info := &Info{}
	var blockAlign int
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		chunkID := string(chunk[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunk[4:8]))

		switch chunkID {
		case "fmt ":
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			blockAlign = int(binary.LittleEndian.Uint16(fmtChunk[12:14]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			if rest := chunkSize - 16; rest > 0 {
				if _, err := io.CopyN(io.Discard, r, int64(rest)); err != nil {
					return nil, fmt.Errorf("skip fmt extension: %w", err)
				}
			}
		case "data":
			if blockAlign == 0 {
				return nil, fmt.Errorf("data chunk before fmt chunk")
			}
			info.Frames = chunkSize / blockAlign
			// duration = frames / sample_rate，四舍五入到百分之一秒
			info.Duration = math.Round(float64(info.Frames)/float64(info.SampleRate)*100) / 100
			return info, nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(chunkSize)); err != nil {
				return nil, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}
	}
	return nil, fmt.Errorf("no data chunk found")
}

// Encode 将 PCM 数据编码为 WAV 写入 w（16bit 小端）
func Encode(w io.Writer, pcm []byte, sampleRate, channels int) error {
	blockAlign := channels * 2
	byteRate := sampleRate * blockAlign
	dataSize := len(pcm)

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}

// WriteFile 将 PCM 数据编码为 WAV 文件
func WriteFile(path string, pcm []byte, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()
	return Encode(f, pcm, sampleRate, channels)
}
