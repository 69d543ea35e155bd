// Command codereview drives the workflow engine end to end against a
// small, built-in code review graph: extract function declarations,
// score complexity, detect issues, suggest fixes, grade quality, and
// loop back for another pass until the quality threshold is met.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PrisDen/Trednece-engine/pkg/codereview"
	"github.com/PrisDen/Trednece-engine/pkg/config"
	"github.com/PrisDen/Trednece-engine/pkg/graphstore"
	"github.com/PrisDen/Trednece-engine/pkg/logging"
	"github.com/PrisDen/Trednece-engine/pkg/orchestrator"
	"github.com/PrisDen/Trednece-engine/pkg/registry"
	"github.com/PrisDen/Trednece-engine/pkg/streamhub"
	"github.com/PrisDen/Trednece-engine/pkg/telemetry"
	"github.com/PrisDen/Trednece-engine/pkg/types"
)

const sampleCode = `package sample

// Add returns the sum of a and b.
func Add(a, b int) int {
	return a + b
}

func messy(a, b, c, d, e, f, g int) int {
	if a > 0 {
		if b > 0 {
			for i := 0; i < c; i++ {
				if d > 0 && e > 0 || f > 0 {
					return a
				}
			}
		}
	}
	return 0
}
`

func buildGraph() types.GraphDocument {
	return types.GraphDocument{
		ID:        "code-review",
		Name:      "code review mini-agent",
		StartNode: "extract",
		Nodes: []types.NodeConfig{
			{ID: "extract", Callable: "extract_functions"},
			{ID: "complexity", Callable: "check_complexity"},
			{ID: "detect", Callable: "detect_basic_issues"},
			{ID: "suggest", Callable: "suggest_improvements"},
			{ID: "evaluate", Callable: "evaluate_quality"},
		},
		Edges: []types.EdgeConfig{
			{From: "extract", To: "complexity", Type: types.EdgeTypeSequential},
			{From: "complexity", To: "detect", Type: types.EdgeTypeSequential},
			{From: "detect", To: "suggest", Type: types.EdgeTypeSequential},
			{From: "suggest", To: "evaluate", Type: types.EdgeTypeSequential},
			{
				From: "evaluate", To: "detect", Type: types.EdgeTypeLoop,
				Loop: &types.LoopConfig{
					MaxIterations:   5,
					UntilExpression: "context.get('meets_threshold', false) == true",
				},
			},
		},
	}
}

func main() {
	log := logging.New(logging.DefaultConfig())

	reg := registry.New()
	reg.MustRegister("extract_functions", codereview.ExtractFunctions)
	reg.MustRegister("check_complexity", codereview.CheckComplexity)
	reg.MustRegister("detect_basic_issues", codereview.DetectBasicIssues)
	reg.MustRegister("suggest_improvements", codereview.SuggestImprovements)
	reg.MustRegister("evaluate_quality", codereview.EvaluateQuality)

	graphs := graphstore.New(reg)
	if _, err := graphs.Create(buildGraph()); err != nil {
		log.Fatalf("failed to register graph: %v", err)
	}

	ctx := context.Background()
	provider, err := telemetry.NewProvider(ctx, telemetry.DefaultConfig())
	if err != nil {
		log.Fatalf("failed to start telemetry: %v", err)
	}
	defer provider.Shutdown(ctx)

	// The OTel Prometheus exporter registers on the default registry;
	// promhttp drains it.
	go func() {
		if err := http.ListenAndServe("localhost:9464", promhttp.Handler()); err != nil {
			log.WithError(err).Warn("metrics endpoint stopped")
		}
	}()

	hub := streamhub.New()
	orch := orchestrator.New(graphs, reg, hub, config.Default(), log, provider)

	rec, err := orch.LaunchRun(ctx, "code-review", map[string]interface{}{"code": sampleCode}, true)
	if err != nil {
		log.Fatalf("failed to launch run: %v", err)
	}

	sub, replay, err := orch.Subscribe(rec.RunID)
	if err != nil {
		log.Fatalf("failed to subscribe: %v", err)
	}
	defer orch.Unsubscribe(rec.RunID, sub)

	for _, l := range replay {
		printLog(l.NodeID, string(l.Status), l.Message, l.Error)
	}

	streamCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for {
		msg, ok := sub.Receive(streamCtx)
		if !ok {
			break
		}
		switch msg.Type {
		case streamhub.MessageTypeLog:
			printLog(msg.Log.NodeID, string(msg.Log.Status), msg.Log.Message, msg.Log.Error)
		case streamhub.MessageTypeStatus:
			fmt.Fprintf(os.Stdout, "[status] %s%s\n", msg.Status, errSuffix(msg.Error))
			if types.IsTerminal(msg.Status) {
				return
			}
		}
	}
}

func printLog(nodeID, status, message, errMsg string) {
	fmt.Fprintf(os.Stdout, "[%s] %s: %s%s\n", nodeID, status, message, errSuffix(errMsg))
}

func errSuffix(errMsg string) string {
	if errMsg == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", errMsg)
}
