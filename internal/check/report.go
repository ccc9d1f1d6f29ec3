package check

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported report languages.
var (
	LangChinese = language.Chinese
	LangEnglish = language.English
)

var reportCatalog = newReportCatalog()

func newReportCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Chinese))
	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.Chinese, KindInvalidKey, "不在关键词中:%s")
	set(language.Chinese, KindDuplicateKey, "重复标注:%s")
	set(language.Chinese, KindDuplicate, "重复同值(可清理):%s")
	set(language.Chinese, KindUnrecognized, "未识别:%s")
	set(language.Chinese, KindInvalidJSON, "JSON格式错误")
	set(language.Chinese, "separator", "，")

	set(language.English, KindInvalidKey, "key not allowed:%s")
	set(language.English, KindDuplicateKey, "key labelled twice:%s")
	set(language.English, KindDuplicate, "same value repeated (cleanable):%s")
	set(language.English, KindUnrecognized, "unrecognized:%s")
	set(language.English, KindInvalidJSON, "invalid JSON")
	set(language.English, "separator", ", ")
	return b
}

// ParseLang maps a --lang value to a report language.
func ParseLang(s string) (language.Tag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zh", "zh-cn", "cn":
		return LangChinese, nil
	case "en", "en-us", "en-gb":
		return LangEnglish, nil
	default:
		return language.Und, fmt.Errorf("unsupported report language %q (zh, en)", s)
	}
}

// Printer renders findings in one language.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a Printer for lang.
func NewPrinter(lang language.Tag) *Printer {
	return &Printer{p: message.NewPrinter(lang, message.Catalog(reportCatalog))}
}

// Reason renders a single finding.
func (pr *Printer) Reason(r Reason) string {
	if r.Kind == KindInvalidJSON {
		return pr.p.Sprintf(KindInvalidJSON)
	}
	return pr.p.Sprintf(r.Kind, r.Key)
}

// Line renders "<image>\t<reason>，<reason>..." for one problem.
func (pr *Printer) Line(pb Problem) string {
	parts := make([]string, len(pb.Reasons))
	for i, r := range pb.Reasons {
		parts[i] = pr.Reason(r)
	}
	return pb.Image + "\t" + strings.Join(parts, pr.p.Sprintf("separator"))
}

// Write prints one line per problem image.
func (pr *Printer) Write(w io.Writer, report *Report) error {
	for _, pb := range report.Problems {
		if _, err := fmt.Fprintln(w, pr.Line(pb)); err != nil {
			return err
		}
	}
	return nil
}
