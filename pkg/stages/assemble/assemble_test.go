package assemble

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/framereel/pkg/adapters/ggrenderer"
	"github.com/user/framereel/pkg/adapters/mjpegencoder"
	"github.com/user/framereel/pkg/adapters/osfilesystem"
	"github.com/user/framereel/pkg/adapters/videoprobe"
	"github.com/user/framereel/pkg/mocks"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func newRealStage(factory ports.EncoderFactory, sink ports.DebugSink) *Stage {
	return NewStage(osfilesystem.New(), ggrenderer.New(), factory, sink, mocks.NewLogger())
}

func TestStage_ResizesMismatchedFrames(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "pano_camera0_frame_00001.png")
	second := filepath.Join(dir, "pano_camera0_frame_00002.png")
	writePNG(t, first, 100, 200, color.RGBA{R: 255, A: 255})
	writePNG(t, second, 50, 100, color.RGBA{B: 255, A: 255})

	rec := &mocks.EncoderRecorder{}
	stage := newRealStage(rec.Factory(), mocks.NewDebugSink(false))

	out := filepath.Join(dir, "out.mp4")
	result, err := stage.Execute(context.Background(), pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "pano_camera0", Paths: []string{first, second}},
		OutputPath: out,
		FPS:        10,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Width != 100 || result.Height != 200 {
		t.Errorf("expected 100x200, got %dx%d", result.Width, result.Height)
	}
	if result.FramesWritten != 2 || result.FramesResized != 1 {
		t.Errorf("unexpected result %+v", result)
	}

	enc := rec.ByOutput(out)
	if enc == nil {
		t.Fatal("encoder was not started for output")
	}
	if enc.FPS != 10 {
		t.Errorf("expected fps 10, got %v", enc.FPS)
	}
	for i, r := range enc.Frames {
		if r.Dx() != 100 || r.Dy() != 200 {
			t.Errorf("frame %d: expected 100x200, got %dx%d", i, r.Dx(), r.Dy())
		}
	}
	if !enc.EndCalled || enc.AbortCalled {
		t.Errorf("expected End without Abort")
	}
}

func TestStage_WritesPlayableVideo(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, size := range []image.Point{{100, 200}, {50, 100}, {100, 200}} {
		p := filepath.Join(dir, "pano_camera0_frame_0000"+string(rune('1'+i))+".png")
		writePNG(t, p, size.X, size.Y, color.RGBA{G: 200, A: 255})
		paths = append(paths, p)
	}

	stage := newRealStage(func() ports.VideoEncoder { return mjpegencoder.New() }, mocks.NewDebugSink(false))

	out := filepath.Join(dir, "pano_camera0.mp4")
	result, err := stage.Execute(context.Background(), pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "pano_camera0", Paths: paths},
		OutputPath: out,
		FPS:        10,
		Annotate:   true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.FileSize == 0 {
		t.Error("expected file size to be reported")
	}

	info, err := videoprobe.ProbeFile(out)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if info.Frames != 3 || info.Width != 100 || info.Height != 200 {
		t.Errorf("unexpected probe %+v", info)
	}

	samples, err := videoprobe.ReadSamples(out)
	if err != nil {
		t.Fatalf("ReadSamples failed: %v", err)
	}
	for i, data := range samples {
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 200 {
			t.Errorf("sample %d: expected 100x200, got %dx%d", i, b.Dx(), b.Dy())
		}
	}
}

func TestStage_FirstFrameUnreadable(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "b.png")
	writePNG(t, second, 10, 10, color.White)

	rec := &mocks.EncoderRecorder{}
	stage := newRealStage(rec.Factory(), mocks.NewDebugSink(false))

	out := filepath.Join(dir, "out.mp4")
	_, err := stage.Execute(context.Background(), pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "s", Paths: []string{filepath.Join(dir, "missing.png"), second}},
		OutputPath: out,
		FPS:        10,
	})
	if !errors.Is(err, ErrFirstFrame) {
		t.Fatalf("expected ErrFirstFrame, got %v", err)
	}
	if len(rec.Encoders) != 0 {
		t.Error("no encoder should be created when the first frame fails")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output file should exist")
	}
}

func TestStage_SkipsUnreadableLaterFrames(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "1.png")
	bad := filepath.Join(dir, "2.png")
	good2 := filepath.Join(dir, "3.png")
	writePNG(t, good1, 20, 20, color.White)
	os.WriteFile(bad, []byte("not a png"), 0644)
	writePNG(t, good2, 20, 20, color.Black)

	rec := &mocks.EncoderRecorder{}
	logger := mocks.NewLogger()
	stage := NewStage(osfilesystem.New(), ggrenderer.New(), rec.Factory(), mocks.NewDebugSink(false), logger)

	result, err := stage.Execute(context.Background(), pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "s", Paths: []string{good1, bad, filepath.Join(dir, "gone.png"), good2}},
		OutputPath: filepath.Join(dir, "out.mp4"),
		FPS:        30,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.FramesWritten != 2 || result.FramesSkipped != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	if got := rec.Encoders[0].FrameCount(); got != 2 {
		t.Errorf("expected 2 encoded frames, got %d", got)
	}
	if n := logger.Count(ports.LevelWarn); n != 2 {
		t.Errorf("expected 2 warnings, got %d", n)
	}
}

func TestStage_EmptySequence(t *testing.T) {
	rec := &mocks.EncoderRecorder{}
	stage := NewStage(mocks.NewFileSystem(), &mocks.Renderer{}, rec.Factory(), mocks.NewDebugSink(false), mocks.NewLogger())

	result, err := stage.Execute(context.Background(), pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "empty"},
		OutputPath: "out/empty.mp4",
		FPS:        10,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Skipped {
		t.Error("expected Skipped")
	}
	if len(rec.Encoders) != 0 {
		t.Error("no encoder should be created for an empty sequence")
	}
}

func TestStage_EncoderFailureAborts(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("src/1.png", []byte("x"))
	fs.AddFile("src/2.png", []byte("x"))

	boom := errors.New("disk full")
	calls := 0
	rec := &mocks.EncoderRecorder{Configure: func(enc *mocks.VideoEncoder) {
		enc.EncodeFrameFunc = func(img image.Image) error {
			calls++
			if calls == 2 {
				return boom
			}
			return nil
		}
	}}

	stage := NewStage(fs, &mocks.Renderer{}, rec.Factory(), mocks.NewDebugSink(false), mocks.NewLogger())
	_, err := stage.Execute(context.Background(), pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "s", Paths: []string{"src/1.png", "src/2.png"}},
		OutputPath: "out/s.mp4",
		FPS:        10,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected encoder error, got %v", err)
	}
	enc := rec.Encoders[0]
	if !enc.AbortCalled || enc.EndCalled {
		t.Errorf("expected Abort without End (abort=%v end=%v)", enc.AbortCalled, enc.EndCalled)
	}
}

func TestStage_CancelledAborts(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("src/1.png", []byte("x"))
	fs.AddFile("src/2.png", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &mocks.EncoderRecorder{}
	stage := NewStage(fs, &mocks.Renderer{}, rec.Factory(), mocks.NewDebugSink(false), mocks.NewLogger())
	_, err := stage.Execute(ctx, pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "s", Paths: []string{"src/1.png", "src/2.png"}},
		OutputPath: "out/s.mp4",
		FPS:        10,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !rec.Encoders[0].AbortCalled {
		t.Error("expected Abort on cancellation")
	}
}

func TestStage_AnnotatesAndSavesFirstFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("src/pano_camera0_frame_00001.png", []byte("x"))

	var canvases []*mocks.Canvas
	renderer := &mocks.Renderer{}
	renderer.CreateCanvasFunc = func(width, height int, bg color.Color) ports.Canvas {
		c := &mocks.Canvas{}
		canvases = append(canvases, c)
		return c
	}

	sink := mocks.NewDebugSink(true)
	rec := &mocks.EncoderRecorder{}
	stage := NewStage(fs, renderer, rec.Factory(), sink, mocks.NewLogger())

	_, err := stage.Execute(context.Background(), pipeline.AssembleInput{
		Sequence:   pipeline.Sequence{Name: "pano_camera0", Paths: []string{"src/pano_camera0_frame_00001.png"}},
		OutputPath: "out/pano_camera0.mp4",
		FPS:        10,
		Annotate:   true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(canvases) != 1 || len(canvases[0].Texts) != 1 || canvases[0].Texts[0] != "pano_camera0_frame_00001.png" {
		t.Errorf("expected file name annotation, got %+v", canvases)
	}
	if _, ok := sink.FirstFrame("pano_camera0"); !ok {
		t.Error("expected first frame in debug sink")
	}
}
