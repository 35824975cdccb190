package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/user/framereel/pkg/adapters/ggrenderer"
	"github.com/user/framereel/pkg/adapters/mjpegencoder"
	"github.com/user/framereel/pkg/adapters/osfilesystem"
	"github.com/user/framereel/pkg/adapters/videoprobe"
	"github.com/user/framereel/pkg/framename"
	"github.com/user/framereel/pkg/mocks"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
	"github.com/user/framereel/pkg/stages/assemble"
	"github.com/user/framereel/pkg/stages/catalog"
	"github.com/user/framereel/pkg/stages/compose"
)

// mockCatalogStage is a mock for the catalog stage.
type mockCatalogStage struct {
	result pipeline.CatalogResult
	lists  map[string][]string
	err    error
}

func (m *mockCatalogStage) Execute(ctx context.Context, input pipeline.CatalogInput) (pipeline.CatalogResult, error) {
	if m.err != nil {
		return pipeline.CatalogResult{}, m.err
	}
	return m.result, nil
}

func (m *mockCatalogStage) ListImages(dir string) ([]string, error) {
	paths, ok := m.lists[dir]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, dir)
	}
	return paths, nil
}

// mockAssembleStage is a mock for the assemble stage.
type mockAssembleStage struct {
	fn    func(input pipeline.AssembleInput) (pipeline.AssembleResult, error)
	calls atomic.Int32
}

func (m *mockAssembleStage) Execute(ctx context.Context, input pipeline.AssembleInput) (pipeline.AssembleResult, error) {
	m.calls.Add(1)
	if m.fn != nil {
		return m.fn(input)
	}
	return pipeline.AssembleResult{OutputPath: input.OutputPath, FramesWritten: len(input.Sequence.Paths)}, nil
}

func newMockOrchestrator(cat *mockCatalogStage, asm *mockAssembleStage) (*Orchestrator, *mocks.FileSystem) {
	fs := mocks.NewFileSystem()
	logger := mocks.NewLogger()
	return New(cat, compose.NewStage(mocks.NewDebugSink(false), logger), asm, fs, logger), fs
}

func newRealOrchestrator() *Orchestrator {
	fs := osfilesystem.New()
	logger := mocks.NewLogger()
	sink := mocks.NewDebugSink(false)
	factory := func() ports.VideoEncoder { return mjpegencoder.New() }

	return New(
		catalog.NewStage(fs, framename.New(framename.DefaultGroupToken), sink, logger),
		compose.NewStage(sink, logger),
		assemble.NewStage(fs, ggrenderer.New(), factory, sink, logger),
		fs,
		logger,
	)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func probeFrames(t *testing.T, path string) int {
	t.Helper()
	info, err := videoprobe.ProbeFile(path)
	if err != nil {
		t.Fatalf("probe %s: %v", path, err)
	}
	return info.Frames
}

func TestOrchestrator_Run_GroupMode(t *testing.T) {
	root := t.TempDir()
	train := filepath.Join(root, "train")
	test := filepath.Join(root, "test")
	out := filepath.Join(root, "out")

	writePNG(t, filepath.Join(train, "pano_camera0_frame_00001.png"), 32, 24)
	writePNG(t, filepath.Join(train, "pano_camera0_frame_00003.png"), 32, 24)
	writePNG(t, filepath.Join(test, "pano_camera0_frame_00002.png"), 16, 12)
	writePNG(t, filepath.Join(test, "pano_camera1_frame_00001.png"), 32, 24)
	os.WriteFile(filepath.Join(test, "readme.txt"), []byte("x"), 0644)

	config := DefaultConfig(ModeGroup)
	config.TrainDir = train
	config.TestDir = test
	config.ExtraDirs = []string{filepath.Join(root, "missing")}
	config.OutDir = out
	config.Workers = 2

	result, err := newRealOrchestrator().Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Groups != 2 || len(result.Outputs) != 2 {
		t.Fatalf("expected 2 groups and outputs, got %+v", result)
	}
	if result.Outputs[0].Sequence != "pano_camera0" || result.Outputs[1].Sequence != "pano_camera1" {
		t.Errorf("outputs out of order: %s, %s", result.Outputs[0].Sequence, result.Outputs[1].Sequence)
	}
	if result.Catalog.SkippedDirs != 1 || result.Catalog.IgnoredFiles != 1 {
		t.Errorf("unexpected catalog stats %+v", result.Catalog)
	}
	if result.Outputs[0].FramesResized != 1 {
		t.Errorf("expected one resized frame, got %d", result.Outputs[0].FramesResized)
	}

	if got := probeFrames(t, filepath.Join(out, "pano_camera0.mp4")); got != 3 {
		t.Errorf("pano_camera0: expected 3 frames, got %d", got)
	}
	if got := probeFrames(t, filepath.Join(out, "pano_camera1.mp4")); got != 1 {
		t.Errorf("pano_camera1: expected 1 frame, got %d", got)
	}
	if result.Succeeded() != 2 || result.Failed != 0 {
		t.Errorf("unexpected counts %+v", result)
	}
}

func TestOrchestrator_Run_SplitMode(t *testing.T) {
	root := t.TempDir()
	train := filepath.Join(root, "train")
	test := filepath.Join(root, "test")
	out := filepath.Join(root, "out")

	for i := 1; i <= 7; i++ {
		writePNG(t, filepath.Join(train, fmt.Sprintf("img_%02d.png", i)), 16, 16)
	}
	writePNG(t, filepath.Join(test, "img_99.png"), 16, 16)

	config := DefaultConfig(ModeSplit)
	config.TrainDir = train
	config.TestDir = test
	config.OutDir = out
	config.NumVideos = 1

	result, err := newRealOrchestrator().Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.TrainImages != 7 || result.TestImages != 1 {
		t.Errorf("unexpected input counts %+v", result)
	}
	if len(result.Outputs) != 1 || result.Outputs[0].Sequence != "video_01" {
		t.Fatalf("unexpected outputs %+v", result.Outputs)
	}
	if got := probeFrames(t, filepath.Join(out, "video_01.mp4")); got != 8 {
		t.Errorf("expected 8 frames, got %d", got)
	}
}

func TestOrchestrator_Run_SplitModeMissingDir(t *testing.T) {
	root := t.TempDir()
	train := filepath.Join(root, "train")
	writePNG(t, filepath.Join(train, "a.png"), 8, 8)

	config := DefaultConfig(ModeSplit)
	config.TrainDir = train
	config.TestDir = filepath.Join(root, "missing")
	config.OutDir = filepath.Join(root, "out")

	_, err := newRealOrchestrator().Run(context.Background(), config)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if _, err := os.Stat(config.OutDir); !os.IsNotExist(err) {
		t.Error("output directory should not be created on configuration error")
	}
}

func TestOrchestrator_Run_SplitModeEmpty(t *testing.T) {
	cat := &mockCatalogStage{lists: map[string][]string{
		"train": nil,
		"test":  {"test/1.png"},
	}}
	asm := &mockAssembleStage{}
	orch, _ := newMockOrchestrator(cat, asm)

	config := DefaultConfig(ModeSplit)
	config.TrainDir, config.TestDir, config.OutDir = "train", "test", "out"

	_, err := orch.Run(context.Background(), config)
	if !errors.Is(err, ErrConfig) || !errors.Is(err, compose.ErrEmptySequence) {
		t.Fatalf("expected ErrConfig wrapping ErrEmptySequence, got %v", err)
	}
	if asm.calls.Load() != 0 {
		t.Error("nothing should be encoded")
	}
}

func TestOrchestrator_Run_FailureDoesNotStopSiblings(t *testing.T) {
	cat := &mockCatalogStage{result: pipeline.CatalogResult{Catalog: pipeline.Catalog{
		"cam_a": {{Group: "cam_a", Order: 1, Path: "a1"}},
		"cam_b": {{Group: "cam_b", Order: 1, Path: "b1"}},
		"cam_c": {{Group: "cam_c", Order: 1, Path: "c1"}},
	}}}
	boom := errors.New("first frame unreadable")
	asm := &mockAssembleStage{fn: func(input pipeline.AssembleInput) (pipeline.AssembleResult, error) {
		if input.Sequence.Name == "cam_b" {
			return pipeline.AssembleResult{}, boom
		}
		return pipeline.AssembleResult{OutputPath: input.OutputPath, FramesWritten: 1, FramesSkipped: 2}, nil
	}}
	orch, fs := newMockOrchestrator(cat, asm)

	config := DefaultConfig(ModeGroup)
	config.TrainDir = "train"
	config.OutDir = "out"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if asm.calls.Load() != 3 {
		t.Errorf("expected 3 encode calls, got %d", asm.calls.Load())
	}
	if result.Failed != 1 || result.Succeeded() != 2 {
		t.Errorf("unexpected counts: failed=%d succeeded=%d", result.Failed, result.Succeeded())
	}
	if !errors.Is(result.Outputs[1].Err, boom) {
		t.Errorf("expected failure recorded on cam_b, got %v", result.Outputs[1].Err)
	}
	if result.FramesSkipped != 4 {
		t.Errorf("expected 4 skipped frames, got %d", result.FramesSkipped)
	}
	if ok, _ := fs.Exists("out"); !ok {
		t.Error("expected output directory to be created")
	}
}

func TestOrchestrator_Run_PreservesSequenceOrder(t *testing.T) {
	records := pipeline.Catalog{}
	for i := 0; i < 40; i++ {
		g := fmt.Sprintf("cam_%02d", i)
		records[g] = []pipeline.FrameRecord{{Group: g, Order: 0, Path: g}}
	}
	cat := &mockCatalogStage{result: pipeline.CatalogResult{Catalog: records}}
	asm := &mockAssembleStage{}
	orch, _ := newMockOrchestrator(cat, asm)

	config := DefaultConfig(ModeGroup)
	config.TrainDir = "train"
	config.OutDir = "out"
	config.Workers = 8

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, out := range result.Outputs {
		if want := fmt.Sprintf("cam_%02d", i); out.Sequence != want {
			t.Fatalf("output %d: expected %s, got %s", i, want, out.Sequence)
		}
		if want := filepath.Join("out", out.Sequence+".mp4"); out.OutputPath != want {
			t.Errorf("expected output path %s, got %s", want, out.OutputPath)
		}
	}
}

func TestOrchestrator_Run_PassesEncodingOptions(t *testing.T) {
	cat := &mockCatalogStage{result: pipeline.CatalogResult{Catalog: pipeline.Catalog{
		"g": {{Group: "g", Order: 1, Path: "p"}},
	}}}
	var got pipeline.AssembleInput
	asm := &mockAssembleStage{fn: func(input pipeline.AssembleInput) (pipeline.AssembleResult, error) {
		got = input
		return pipeline.AssembleResult{}, nil
	}}
	orch, _ := newMockOrchestrator(cat, asm)

	config := DefaultConfig(ModeGroup)
	config.TrainDir = "train"
	config.OutDir = "out"
	config.Quality = 20
	config.Bitrate = 500
	config.Annotate = true

	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got.FPS != DefaultGroupFPS || got.Options.Quality != 20 || got.Options.Bitrate != 500 || !got.Annotate {
		t.Errorf("unexpected assemble input %+v", got)
	}
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	cat := &mockCatalogStage{result: pipeline.CatalogResult{Catalog: pipeline.Catalog{
		"a": {{Group: "a", Order: 1, Path: "a1"}},
		"b": {{Group: "b", Order: 1, Path: "b1"}},
		"c": {{Group: "c", Order: 1, Path: "c1"}},
	}}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	asm := &mockAssembleStage{fn: func(input pipeline.AssembleInput) (pipeline.AssembleResult, error) {
		cancel()
		return pipeline.AssembleResult{OutputPath: input.OutputPath, FramesWritten: 1}, nil
	}}
	orch, _ := newMockOrchestrator(cat, asm)

	config := DefaultConfig(ModeGroup)
	config.TrainDir = "train"
	config.OutDir = "out"
	config.Workers = 1

	result, err := orch.Run(ctx, config)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if asm.calls.Load() != 1 {
		t.Errorf("no sequence should start after cancellation, got %d calls", asm.calls.Load())
	}
	if len(result.Outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(result.Outputs))
	}
	if !result.Outputs[0].OK() {
		t.Errorf("first output should have completed: %+v", result.Outputs[0])
	}
	for _, out := range result.Outputs[1:] {
		if !errors.Is(out.Err, context.Canceled) {
			t.Errorf("%s: expected cancellation, got %v", out.Sequence, out.Err)
		}
	}
}

func TestOrchestrator_Run_NoFrames(t *testing.T) {
	cat := &mockCatalogStage{result: pipeline.CatalogResult{Catalog: pipeline.Catalog{}}}
	asm := &mockAssembleStage{}
	orch, fs := newMockOrchestrator(cat, asm)

	config := DefaultConfig(ModeGroup)
	config.TrainDir = "train"
	config.OutDir = "out"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Outputs) != 0 {
		t.Errorf("expected no outputs, got %d", len(result.Outputs))
	}
	if ok, _ := fs.Exists("out"); ok {
		t.Error("output directory should not be created when there is nothing to write")
	}
}

func TestOrchestrator_Run_CatalogError(t *testing.T) {
	boom := errors.New("permission denied")
	orch, _ := newMockOrchestrator(&mockCatalogStage{err: boom}, &mockAssembleStage{})

	config := DefaultConfig(ModeGroup)
	config.TrainDir = "train"
	config.OutDir = "out"

	if _, err := orch.Run(context.Background(), config); !errors.Is(err, boom) {
		t.Errorf("expected catalog error, got %v", err)
	}
}
