package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/notepdf/internal/layout"
)

func TestRecordFieldOrder(t *testing.T) {
	n := &Note{
		Kind:         layout.KindMemo,
		User:         "山田",
		Date:         "2024/05/18",
		Event:        "運動会",
		Participants: "5名",
		Caution:      "雨天延期",
	}
	rec := n.Record()

	assert.Equal(t, layout.KindMemo, rec.Kind)
	require.Len(t, rec.Fields, 8)
	assert.Equal(t, LabelUser, rec.Fields[0].Label)
	assert.Equal(t, LabelParticipants, rec.Fields[7].Label)
	assert.Equal(t, "雨天延期", rec.Remarks)

	visible := rec.VisibleFields()
	require.Len(t, visible, 4)
	assert.Equal(t, []string{LabelUser, LabelDate, LabelEvent, LabelParticipants},
		[]string{visible[0].Label, visible[1].Label, visible[2].Label, visible[3].Label})
}

func TestPrepare(t *testing.T) {
	n := &Note{Kind: "memo", Date: "2024-05-18", Event: "  バザー  ", Caution: "a\r\nb"}
	require.NoError(t, n.Prepare())

	assert.Equal(t, layout.KindMemo, n.Kind)
	assert.Equal(t, "2024/05/18", n.Date)
	assert.Equal(t, "バザー", n.Event)
	assert.Equal(t, "a\nb", n.Caution)
}

func TestPrepareDefaultsKind(t *testing.T) {
	n := &Note{Event: "総会"}
	require.NoError(t, n.Prepare())
	assert.Equal(t, layout.KindMinutes, n.Kind)
}

func TestPrepareCautionHTML(t *testing.T) {
	n := &Note{Event: "総会", Caution: "ignored", CautionHTML: "<p>受付 9:00</p><p>上履き持参</p>"}
	require.NoError(t, n.Prepare())
	assert.Equal(t, "受付 9:00\n上履き持参", n.Caution)
	assert.Empty(t, n.CautionHTML)
}

func TestPrepareErrors(t *testing.T) {
	err := (&Note{Kind: "report", Event: "x"}).Prepare()
	assert.ErrorIs(t, err, ErrInvalidKind)

	err = (&Note{Date: "18 May", Event: "x"}).Prepare()
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Note{Kind: layout.KindMinutes, Event: " "}).Validate(), ErrEventRequired)
	assert.ErrorIs(t, (&Note{Kind: "other", Event: "x"}).Validate(), ErrInvalidKind)
	assert.NoError(t, (&Note{Kind: layout.KindMinutes, Event: "x"}).Validate())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "PTA_運動会.pdf", (&Note{Event: "運動会"}).FileName())
	assert.Equal(t, "PTA_a_b_c.pdf", (&Note{Event: "a/b:c"}).FileName())
}
