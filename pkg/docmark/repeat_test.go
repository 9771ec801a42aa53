package docmark

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRepeats(t *testing.T) {
	tests := []struct {
		name   string
		body   []string
		opts   []Option
		want   []string
		blocks int
	}{
		{
			name:   "single mode copies body once regardless of count",
			body:   []string{markPara("repeat_3"), para(textRun("line")), markPara("end"), para(textRun("after"))},
			want:   []string{"repeat_3", "line", "line", "end", "after"},
			blocks: 1,
		},
		{
			name:   "multi paragraph body keeps order",
			body:   []string{para(textRun("before")), markPara("repeat_2"), para(textRun("a")), para(textRun("b")), markPara("end")},
			want:   []string{"before", "repeat_2", "a", "b", "a", "b", "end"},
			blocks: 1,
		},
		{
			name:   "count mode repeats body n times in total",
			body:   []string{markPara("repeat_3"), para(textRun("a")), markPara("end")},
			opts:   []Option{WithRepeatMode(RepeatCount)},
			want:   []string{"repeat_3", "a", "a", "a", "end"},
			blocks: 1,
		},
		{
			name:   "count mode with one keeps body",
			body:   []string{markPara("repeat_1"), para(textRun("a")), markPara("end")},
			opts:   []Option{WithRepeatMode(RepeatCount)},
			want:   []string{"repeat_1", "a", "end"},
			blocks: 1,
		},
		{
			name:   "count mode with zero removes body",
			body:   []string{markPara("repeat_0"), para(textRun("a")), para(textRun("b")), markPara("end"), para(textRun("z"))},
			opts:   []Option{WithRepeatMode(RepeatCount)},
			want:   []string{"repeat_0", "end", "z"},
			blocks: 1,
		},
		{
			name:   "markers removed",
			body:   []string{markPara("repeat_2"), para(textRun("a")), markPara("end")},
			opts:   []Option{WithRemoveRepeatMarkers(true)},
			want:   []string{"a", "a"},
			blocks: 1,
		},
		{
			name:   "unclosed block is a no-op",
			body:   []string{markPara("repeat_2"), para(textRun("a"))},
			want:   []string{"repeat_2", "a"},
			blocks: 0,
		},
		{
			name:   "orphan end ignored",
			body:   []string{markPara("end"), para(textRun("a"))},
			want:   []string{"end", "a"},
			blocks: 0,
		},
		{
			name:   "nested opener ignored",
			body:   []string{markPara("repeat_2"), para(textRun("a")), markPara("repeat_5"), para(textRun("b")), markPara("end")},
			want:   []string{"repeat_2", "a", "repeat_5", "b", "a", "repeat_5", "b", "end"},
			blocks: 1,
		},
		{
			name:   "two sequential blocks",
			body:   []string{markPara("repeat_2"), para(textRun("a")), markPara("end"), markPara("repeat_2"), para(textRun("b")), markPara("end")},
			want:   []string{"repeat_2", "a", "a", "end", "repeat_2", "b", "b", "end"},
			blocks: 2,
		},
		{
			name:   "empty body",
			body:   []string{markPara("repeat_2"), markPara("end")},
			want:   []string{"repeat_2", "end"},
			blocks: 1,
		},
		{
			name:   "unstyled marker text is ignored",
			body:   []string{para(textRun("repeat_2")), para(textRun("a")), para(textRun("end"))},
			want:   []string{"repeat_2", "a", "end"},
			blocks: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadTestDocument(t, tt.body...)
			e := quietEngine(tt.opts...)
			report := newReport()

			require.NoError(t, e.expandRepeats(doc, e.scanner(doc), report))

			got := paragraphTexts(reloadDocument(t, doc))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.blocks, report.BlocksExpanded)
		})
	}
}

func TestExpandRepeatsCopiesFormatting(t *testing.T) {
	doc := loadTestDocument(t,
		markPara("repeat_2"),
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r></w:p>`,
		markPara("end"),
	)
	e := quietEngine()
	require.NoError(t, e.expandRepeats(doc, e.scanner(doc), newReport()))

	data, err := doc.Body().Bytes()
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), `<w:jc w:val="center"`))
	assert.Equal(t, 2, bytes.Count(data, []byte(`<w:b/>`)))
}

func TestExpandRepeatsSyntaxErrorLeavesDocument(t *testing.T) {
	doc := loadTestDocument(t,
		markPara("repeat_2"), para(textRun("a")), markPara("end"),
		markPara("repeat_two"),
	)
	before, err := doc.Body().Bytes()
	require.NoError(t, err)

	e := quietEngine()
	err = e.expandRepeats(doc, e.scanner(doc), newReport())
	require.Error(t, err)

	var syn *TemplateSyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 3, syn.Paragraph)
	assert.Contains(t, err.Error(), "paragraph 3")

	after, err := doc.Body().Bytes()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestExpandRepeatsReportsEveryBadCount(t *testing.T) {
	doc := loadTestDocument(t,
		markPara("repeat_x"),
		para(textRun("a")),
		markPara("repeat_y"),
		markPara("end"),
	)
	e := quietEngine()

	err := e.expandRepeats(doc, e.scanner(doc), newReport())
	require.Error(t, err)

	var multi *MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Len())
	assert.True(t, IsTemplateSyntaxError(err))
	assert.Contains(t, err.Error(), "paragraph 0 near 'repeat_x'")
	assert.Contains(t, err.Error(), "paragraph 2 near 'repeat_y'")
	assert.Equal(t, []string{"repeat_x", "a", "repeat_y", "end"}, paragraphTexts(doc))
}

func TestScanRepeatsAnomalies(t *testing.T) {
	doc := loadTestDocument(t,
		markPara("end"),
		markPara("repeat_1"),
		markPara("repeat_2"),
		markPara("end"),
		markPara("repeat_x"),
		markPara("repeat_4"),
	)
	s := NewScanner(doc.Styles(), DefaultMarkupStyle)

	blocks, anomalies := scanRepeats(doc.Body().Paragraphs(), s)
	assert.Equal(t, []repeatBlock{{open: 1, close: 3, count: 1}}, blocks)

	var kinds []anomalyKind
	var at []int
	for _, a := range anomalies {
		kinds = append(kinds, a.kind)
		at = append(at, a.paragraph)
	}
	assert.Equal(t, []anomalyKind{anomalyOrphanEnd, anomalyNested, anomalySyntax, anomalyUnclosed}, kinds)
	assert.Equal(t, []int{0, 2, 4, 5}, at)
}

func TestParseRepeatMode(t *testing.T) {
	mode, err := ParseRepeatMode(" Count ")
	require.NoError(t, err)
	assert.Equal(t, RepeatCount, mode)

	mode, err = ParseRepeatMode("single")
	require.NoError(t, err)
	assert.Equal(t, RepeatSingle, mode)

	_, err = ParseRepeatMode("twice")
	assert.Error(t, err)
	assert.Equal(t, "RepeatMode(7)", RepeatMode(7).String())
}
