// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package steps

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/storage"
)

// StepExport renders human-readable exports of the finished graph.
const StepExport = "export"

// ExportStep writes a markdown outline of the topic hierarchy plus a
// standalone JSON export of the graph.
type ExportStep struct{}

// NewExportStep creates the export step.
func NewExportStep() *ExportStep { return &ExportStep{} }

func (s *ExportStep) Name() string { return StepExport }

func (s *ExportStep) ValidateContext(pctx *pipeline.Context) error {
	if !pctx.Manifest.HasPath(core.ArtifactGraph) {
		return &pipeline.ValidationError{Step: StepExport, Problems: []string{"graph artifact not in manifest"}}
	}
	return nil
}

func (s *ExportStep) Execute(ctx context.Context, pctx *pipeline.Context) (*pipeline.Result, error) {
	videoID := pctx.Manifest.VideoID

	var g core.Graph
	if err := storage.ReadJSON(ctx, pctx.Store, pctx.Manifest.Paths[core.ArtifactGraph], &g); err != nil {
		return nil, err
	}
	if len(g.Topics) == 0 {
		return nil, ErrEmptyGraph
	}

	pctx.Progress(20, "rendering outline")
	outlinePath := storage.Path(videoID, storage.CategoryExports, "outline.md")
	if err := pctx.Store.Write(ctx, outlinePath, []byte(FormatOutline(&g))); err != nil {
		return nil, err
	}

	pctx.Progress(70, "writing graph export")
	exportPath := storage.Path(videoID, storage.CategoryExports, "graph.json")
	if err := storage.WriteJSON(ctx, pctx.Store, exportPath, &g); err != nil {
		return nil, err
	}

	pctx.Progress(100, "export complete")
	return &pipeline.Result{
		Artifacts: map[core.Artifact]string{
			core.ArtifactExport:                          outlinePath,
			core.IndexedArtifact(core.ArtifactExport, 0): exportPath,
		},
	}, nil
}

func (s *ExportStep) Cleanup(pctx *pipeline.Context) error { return nil }

// FormatOutline renders the topic hierarchy as a markdown outline, top
// level first, children indented beneath their parents in time order.
func FormatOutline(g *core.Graph) string {
	byID := make(map[core.ID]*core.Topic, len(g.Topics))
	maxLevel := 0
	for _, t := range g.Topics {
		byID[t.ID] = t
		if t.Level > maxLevel {
			maxLevel = t.Level
		}
	}

	var roots []*core.Topic
	for _, t := range g.Topics {
		if t.Level == maxLevel {
			roots = append(roots, t)
		}
	}
	sortByStart(roots)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", g.VideoID))
	for _, root := range roots {
		writeOutlineNode(&sb, root, byID, 0)
	}
	return sb.String()
}

func writeOutlineNode(sb *strings.Builder, t *core.Topic, byID map[core.ID]*core.Topic, depth int) {
	title := t.Title
	if title == "" {
		title = "(untitled)"
	}
	sb.WriteString(fmt.Sprintf("%s- [%s - %s] %s\n",
		strings.Repeat("  ", depth), clock(t.Start), clock(t.End), title))

	children := make([]*core.Topic, 0, len(t.ChildIDs))
	for _, id := range t.ChildIDs {
		if child, ok := byID[id]; ok {
			children = append(children, child)
		}
	}
	sortByStart(children)
	for _, child := range children {
		writeOutlineNode(sb, child, byID, depth+1)
	}
}

func sortByStart(topics []*core.Topic) {
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Start != topics[j].Start {
			return topics[i].Start < topics[j].Start
		}
		return topics[i].ID < topics[j].ID
	})
}

func clock(seconds float64) string {
	total := int64(seconds + 0.5)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
