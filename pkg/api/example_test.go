package api_test

import (
	"fmt"
	"io"
	"strings"

	"github.com/gompdf/notepdf/pkg/api"
)

func ExampleRenderer_Render() {
	r := api.New(api.WithFontPath("no-such-font.ttf"), api.WithWrapWidth(35))

	rec := api.Record{
		Kind: api.KindMinutes,
		Fields: []api.Field{
			{Label: "入力者", Value: "山田"},
			{Label: "開催日", Value: "2024/04/01"},
			{Label: "時間", Value: ""},
		},
		Remarks: strings.Repeat("持ち物は水筒と帽子。", 20),
	}

	result, err := r.Render(rec, io.Discard)
	if err != nil {
		fmt.Println("render failed:", err)
		return
	}
	fmt.Println("pages:", result.Pages)
	fmt.Println("fallback font:", result.FallbackUsed())
	// Output:
	// pages: 1
	// fallback font: true
}

func ExampleRenderer_Layout() {
	doc := api.New().Layout(api.Record{Kind: api.KindMemo})
	for _, page := range doc.Pages {
		for _, op := range page.Ops {
			if op.Text != "" {
				fmt.Println(op.Text)
			}
		}
	}
	// Output:
	// PTA 備忘録 (1)
	// 【内容・注意事項・申し送り】:
}
