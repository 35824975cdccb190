// Package videoprobe inspects MP4 files written by the encoders: codec,
// dimensions, sample count and duration.
package videoprobe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecMJPEG   Codec = "mjpeg"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = errors.New("videoprobe: no video track found")

// Info describes the video track of an MP4 file.
type Info struct {
	Codec      Codec
	Width      int
	Height     int
	Frames     int
	DurationMs int64
	Fragmented bool
}

// ProbeFile inspects the MP4 file at path.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Probe(f)
}

// Probe inspects an MP4 stream.
func Probe(reader io.ReadSeeker) (Info, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Info{}, fmt.Errorf("decode mp4: %w", err)
	}

	trak := videoTrack(mp4File)
	if trak == nil {
		return Info{}, ErrNoVideoTrack
	}

	info := Info{
		Codec:      detectCodecFromTrack(trak),
		Width:      int(uint32(trak.Tkhd.Width) >> 16),
		Height:     int(uint32(trak.Tkhd.Height) >> 16),
		Fragmented: mp4File.IsFragmented(),
	}

	timescale := uint32(1000)
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	if info.Fragmented {
		samples, err := fragmentedSamples(mp4File, trak.Tkhd.TrackID)
		if err != nil {
			return Info{}, err
		}
		var total uint64
		for _, s := range samples {
			total += uint64(s.Dur)
		}
		info.Frames = len(samples)
		info.DurationMs = int64(total * 1000 / uint64(timescale))
		return info, nil
	}

	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz != nil {
		info.Frames = int(stbl.Stsz.SampleNumber)
	}
	if trak.Mdia.Mdhd != nil {
		info.DurationMs = int64(trak.Mdia.Mdhd.Duration * 1000 / uint64(timescale))
	}
	return info, nil
}

// ReadSamples returns the raw sample payloads of a fragmented MP4 in decode
// order. For MJPEG files each payload is a complete JPEG image.
func ReadSamples(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	mp4File, err := mp4.DecodeFile(f)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}
	if !mp4File.IsFragmented() {
		return nil, fmt.Errorf("progressive MP4 not supported, use fragmented MP4")
	}

	trak := videoTrack(mp4File)
	if trak == nil {
		return nil, ErrNoVideoTrack
	}

	samples, err := fragmentedSamples(mp4File, trak.Tkhd.TrackID)
	if err != nil {
		return nil, err
	}

	data := make([][]byte, len(samples))
	for i, s := range samples {
		data[i] = s.Data
	}
	return data, nil
}

// moov returns the movie box of either a progressive or fragmented file.
func moov(mp4File *mp4.File) *mp4.MoovBox {
	if mp4File.Moov != nil {
		return mp4File.Moov
	}
	if mp4File.Init != nil {
		return mp4File.Init.Moov
	}
	return nil
}

func videoTrack(mp4File *mp4.File) *mp4.TrakBox {
	m := moov(mp4File)
	if m == nil {
		return nil
	}
	for _, trak := range m.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		if trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

func fragmentedSamples(mp4File *mp4.File, trackID uint32) ([]mp4.FullSample, error) {
	var trex *mp4.TrexBox
	if m := moov(mp4File); m != nil && m.Mvex != nil {
		for _, t := range m.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	var samples []mp4.FullSample
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			fs, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, fmt.Errorf("get samples: %w", err)
			}
			samples = append(samples, fs...)
		}
	}
	return samples, nil
}

func detectCodecFromTrack(trak *mp4.TrakBox) Codec {
	stsd := trak.Mdia.Minf.Stbl.Stsd
	if stsd == nil {
		return CodecUnknown
	}

	for _, child := range stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return CodecH264
		case "jpeg", "mjpa", "mjpb":
			return CodecMJPEG
		case "av01":
			return CodecAV1
		}
	}

	return CodecUnknown
}
