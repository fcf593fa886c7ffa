package bionic_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tassa-yoniso-manasi-karoto/go-bionic"
)

func TestIntegration(t *testing.T) {
	// Skip if not explicitly enabled
	if os.Getenv("BIONIC_KONLPY_TEST") != "1" {
		t.Skip("Integration tests disabled. Set BIONIC_KONLPY_TEST=1 to run")
	}

	if os.Getenv("BIONIC_DEBUG") == "1" {
		bionic.EnableDebugLogging()
	}

	ctx := context.Background()

	manager, err := bionic.NewManager(ctx,
		bionic.WithQueryTimeout(30*time.Second),
		bionic.WithProjectName("bionic-it"))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Log("Initializing KoNLPy container...")
	if err := manager.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	defer manager.Close()

	testText := "사과를 먹었습니다!"

	t.Run("Analyze", func(t *testing.T) {
		tokens, err := manager.Analyze(ctx, testText)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		t.Logf("Tokens: %v", tokens)

		if len(tokens) == 0 {
			t.Fatal("Expected tokens, got none")
		}
		if tokens[0].Surface != "사과" || tokens[0].Pos != bionic.Noun {
			t.Errorf("Expected first token 사과/Noun, got %v", tokens[0])
		}
	})

	t.Run("AnalyzeWithoutStemming", func(t *testing.T) {
		result, err := manager.AnalyzeWithOptions(ctx, testText, bionic.AnalyzeOptions{Norm: true})
		if err != nil {
			t.Fatalf("AnalyzeWithOptions failed: %v", err)
		}
		t.Logf("Surfaces: %v", bionic.ExtractSurfaces(result.Tokens))
		t.Logf("Engine: %s, Processing time: %.2fms", result.Engine, result.ProcessingTime)
	})

	t.Run("RenderAdvanced", func(t *testing.T) {
		out, err := bionic.NewRenderer(manager).Advanced(ctx, testText)
		if err != nil {
			t.Fatalf("Advanced failed: %v", err)
		}
		t.Logf("Rendered: %s", out)

		if !strings.HasPrefix(out, "<b>사</b>과") {
			t.Errorf("Unexpected rendering: %s", out)
		}
	})

	t.Run("GetVersion", func(t *testing.T) {
		version, err := manager.GetVersion(ctx)
		if err != nil {
			t.Fatalf("GetVersion failed: %v", err)
		}
		t.Logf("KoNLPy version: %s", version)
	})
}
