package layout

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/notepdf/internal/pagination"
	"github.com/gompdf/notepdf/internal/res"
	"github.com/gompdf/notepdf/internal/text"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(res.NewFontResolver(nil))
	opts := e.Options()
	opts.FontName = filepath.Join(t.TempDir(), "missing.ttf")
	e.SetOptions(opts)
	return e
}

// smallEngine uses round numbers: page 1 fits 10 remarks lines after the
// caption, every later page fits 11.
func smallEngine(t *testing.T) *Engine {
	e := newTestEngine(t)
	opts := e.Options()
	opts.PageHeight = 100
	opts.BodyTop = 30
	opts.MarginBottom = 20
	opts.FieldLineHeight = 5
	opts.CaptionAdvance = 5
	opts.RemarksLineHeight = 5
	opts.WrapWidth = 10
	e.SetOptions(opts)
	return e
}

func TestRenderEmptyRecord(t *testing.T) {
	doc := newTestEngine(t).Render(Record{})

	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, []string{"PTA (1)"}, page.Texts(pagination.RoleTitle))
	assert.Len(t, page.Texts(pagination.RoleCaption), 1)
	assert.Empty(t, page.Texts(pagination.RoleField))
	assert.Empty(t, page.Texts(pagination.RoleRemarks))

	var rules int
	for _, op := range page.Ops {
		if op.Kind == pagination.OpRule {
			rules++
		}
	}
	assert.Equal(t, 1, rules)
}

func TestRenderEmptyFieldsAndRemarks(t *testing.T) {
	rec := Record{
		Kind:   KindMinutes,
		Fields: []Field{{"入力者", ""}, {"開催日", ""}},
	}
	doc := newTestEngine(t).Render(rec)

	require.Len(t, doc.Pages, 1)
	assert.Empty(t, doc.Texts(pagination.RoleField))
	assert.Equal(t, []string{"PTA 議事録 (1)"}, doc.Texts(pagination.RoleTitle))
}

func TestRenderTwoFieldsNoRemarks(t *testing.T) {
	rec := Record{
		Kind:   KindMemo,
		Fields: []Field{{"user", "Smith"}, {"date", "2024/04/01"}},
	}
	doc := newTestEngine(t).Render(rec)

	require.Len(t, doc.Pages, 1)
	assert.Equal(t, []string{"【user】: Smith", "【date】: 2024/04/01"}, doc.Texts(pagination.RoleField))
	assert.Len(t, doc.Texts(pagination.RoleCaption), 1)
	assert.Empty(t, doc.Texts(pagination.RoleRemarks))
}

func TestRenderSkipsEmptyFieldsKeepsOrder(t *testing.T) {
	rec := Record{
		Kind: KindMinutes,
		Fields: []Field{
			{"入力者", "澤田"},
			{"開催日", "2024/05/10"},
			{"時間", ""},
			{"行事内容", "運動会"},
			{"開催場所", ""},
			{"参加者", "12"},
		},
	}
	doc := newTestEngine(t).Render(rec)

	assert.Equal(t, []string{
		"【入力者】: 澤田",
		"【開催日】: 2024/05/10",
		"【行事内容】: 運動会",
		"【参加者】: 12",
	}, doc.Texts(pagination.RoleField))

	ops := doc.Pages[0].Ops
	var ys []float64
	for _, op := range ops {
		if op.Role == pagination.RoleField {
			ys = append(ys, op.Y)
		}
	}
	assert.Equal(t, []float64{32, 42, 52, 62}, ys)
}

func TestRenderWrapsRemarksRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	for _, n := range []int{1, 35, 36, 100, 500, 2000} {
		remarks := strings.Repeat("注", n)
		doc := e.Render(Record{Kind: KindMemo, Remarks: remarks})

		lines := doc.Texts(pagination.RoleRemarks)
		assert.Len(t, lines, int(math.Ceil(float64(n)/35)), "length %d", n)
		assert.Equal(t, remarks, strings.Join(lines, ""), "length %d", n)
	}
}

func TestRenderHundredCharsFitOnFirstPage(t *testing.T) {
	doc := newTestEngine(t).Render(Record{Remarks: strings.Repeat("a", 100)})

	require.Len(t, doc.Pages, 1)
	assert.Equal(t, []string{strings.Repeat("a", 35), strings.Repeat("a", 35), strings.Repeat("a", 30)},
		doc.Pages[0].Texts(pagination.RoleRemarks))
}

func expectedPages(lines int) int {
	if lines <= 10 {
		return 1
	}
	return 1 + (lines-10+10)/11
}

func TestRenderMinimalPageCount(t *testing.T) {
	e := smallEngine(t)
	for n := 0; n <= 60; n++ {
		remarks := strings.Repeat("x", n*10)
		doc := e.Render(Record{Remarks: remarks})
		require.Len(t, doc.Pages, expectedPages(n), "lines %d", n)
		assert.Len(t, doc.Texts(pagination.RoleRemarks), n)
	}
}

func TestRenderPageCountMonotonic(t *testing.T) {
	e := newTestEngine(t)
	prev := 0
	for n := 0; n <= 6000; n += 97 {
		doc := e.Render(Record{Remarks: strings.Repeat("文", n)})
		assert.GreaterOrEqual(t, len(doc.Pages), prev, "length %d", n)
		prev = len(doc.Pages)
	}
	assert.Greater(t, prev, 1)
}

func TestRenderRepeatsHeaderOnEveryPage(t *testing.T) {
	e := smallEngine(t)
	doc := e.Render(Record{Kind: KindMinutes, Remarks: strings.Repeat("y", 250)})

	require.Len(t, doc.Pages, 3)
	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.Index)
		titles := page.Texts(pagination.RoleTitle)
		require.Len(t, titles, 1)
		assert.Equal(t, "PTA 議事録 ("+string(rune('1'+i))+")", titles[0])
		for _, op := range page.Ops {
			if op.Role == pagination.RoleRemarks {
				assert.LessOrEqual(t, op.Y, 80.0)
				assert.GreaterOrEqual(t, op.Y, 30.0)
			}
		}
	}
	// caption only on the first page
	assert.Len(t, doc.Pages[0].Texts(pagination.RoleCaption), 1)
	assert.Empty(t, doc.Pages[1].Texts(pagination.RoleCaption))
}

func TestRenderFieldOverflowPaginates(t *testing.T) {
	e := smallEngine(t)
	var fields []Field
	for i := 0; i < 15; i++ {
		fields = append(fields, Field{Label: "項目", Value: "値"})
	}
	doc := e.Render(Record{Fields: fields})

	require.Len(t, doc.Pages, 2)
	assert.Len(t, doc.Pages[0].Texts(pagination.RoleField), 11)
	assert.Len(t, doc.Pages[1].Texts(pagination.RoleField), 4)
	assert.Len(t, doc.Pages[1].Texts(pagination.RoleCaption), 1)
}

func TestRenderStateTransitions(t *testing.T) {
	e := smallEngine(t)
	var states []State
	e.Observer = func(s State) { states = append(states, s) }

	e.Render(Record{Remarks: strings.Repeat("z", 120)})

	want := []State{StateStart, StateHeaderDrawn, StateFieldsDrawn, StateRemarksCaptioned}
	for i := 0; i < 10; i++ {
		want = append(want, StateStreamingLine)
	}
	want = append(want, StatePageBreak, StateStreamingLine, StateStreamingLine, StateFinalized)
	assert.Equal(t, want, states)
}

func TestRenderBreakBeforeFirstRemarksLine(t *testing.T) {
	e := smallEngine(t)
	var states []State
	e.Observer = func(s State) { states = append(states, s) }

	var fields []Field
	for i := 0; i < 10; i++ {
		fields = append(fields, Field{Label: "項目", Value: "値"})
	}
	doc := e.Render(Record{Fields: fields, Remarks: strings.Repeat("z", 10)})

	require.Len(t, doc.Pages, 2)
	assert.Len(t, doc.Pages[0].Texts(pagination.RoleCaption), 1)
	assert.Equal(t, []string{strings.Repeat("z", 10)}, doc.Pages[1].Texts(pagination.RoleRemarks))
	assert.Equal(t, []State{
		StateStart, StateHeaderDrawn, StateFieldsDrawn, StateRemarksCaptioned,
		StatePageBreak, StateStreamingLine, StateFinalized,
	}, states)
}

func TestRenderFieldOverflowStates(t *testing.T) {
	e := smallEngine(t)
	var states []State
	e.Observer = func(s State) { states = append(states, s) }

	var fields []Field
	for i := 0; i < 15; i++ {
		fields = append(fields, Field{Label: "項目", Value: "値"})
	}
	doc := e.Render(Record{Fields: fields})

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, []State{
		StateStart, StateHeaderDrawn, StateFieldsDrawn, StateRemarksCaptioned, StateFinalized,
	}, states)
}

func TestRenderEmptyLinePolicy(t *testing.T) {
	e := newTestEngine(t)
	rec := Record{Remarks: "一行目\n\n三行目"}

	assert.Equal(t, []string{"一行目", "三行目"}, e.Render(rec).Texts(pagination.RoleRemarks))

	opts := e.Options()
	opts.EmptyLines = text.KeepEmpty
	e.SetOptions(opts)
	assert.Equal(t, []string{"一行目", "", "三行目"}, e.Render(rec).Texts(pagination.RoleRemarks))
}

func TestRenderCustomWrapper(t *testing.T) {
	e := newTestEngine(t)
	opts := e.Options()
	opts.Wrapper = text.DisplayWidthWrapper{Columns: 4}
	e.SetOptions(opts)

	doc := e.Render(Record{Remarks: "あいうえ"})
	assert.Equal(t, []string{"あい", "うえ"}, doc.Texts(pagination.RoleRemarks))
}

func TestRenderFontFallback(t *testing.T) {
	doc := newTestEngine(t).Render(Record{Remarks: "テスト"})

	assert.True(t, doc.Font.FallbackUsed())
	assert.Equal(t, res.FallbackFamily, doc.Font.Family)
	assert.ErrorIs(t, doc.Font.Reason, res.ErrFontUnavailable)
}

func TestRenderDoesNotMutateRecord(t *testing.T) {
	fields := []Field{{"a", "1"}, {"b", ""}}
	rec := Record{Kind: KindMemo, Fields: fields, Remarks: "r"}
	newTestEngine(t).Render(rec)

	assert.Equal(t, []Field{{"a", "1"}, {"b", ""}}, rec.Fields)
	assert.Equal(t, "r", rec.Remarks)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("minutes")
	require.NoError(t, err)
	assert.Equal(t, KindMinutes, k)

	k, err = ParseKind("備忘録")
	require.NoError(t, err)
	assert.Equal(t, KindMemo, k)
	assert.True(t, k.Valid())

	_, err = ParseKind("invoice")
	assert.Error(t, err)
	assert.False(t, DocumentKind("invoice").Valid())
}
