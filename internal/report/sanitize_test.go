package report

import (
	"strings"
	"testing"
)

func TestSanitizeHTMLStripsScripts(t *testing.T) {
	in := "<div>Hello<script>alert(1)</script>World</div>"
	got := SanitizeHTML(in)
	if got != "<div>HelloWorld</div>" {
		t.Errorf("SanitizeHTML(%q) = %q", in, got)
	}
}

func TestSanitizeHTMLNeutralizesJavascriptURI(t *testing.T) {
	got := SanitizeHTML(`<a href="javascript:evil()">link</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript: URI survived: %q", got)
	}
	if !strings.Contains(got, "link</a>") {
		t.Errorf("anchor text lost: %q", got)
	}
}

func TestSanitizeHTMLRemovesEventHandlers(t *testing.T) {
	got := SanitizeHTML(`<button onclick="steal()">Click</button>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("onclick survived: %q", got)
	}
	if got != "<button>Click</button>" {
		t.Errorf("got %q", got)
	}
}

func TestSanitizeHTMLRemovesIframesWithContent(t *testing.T) {
	got := SanitizeHTML(`<p>before</p><iframe src="https://evil.test">inner</iframe><p>after</p>`)
	if got != "<p>before</p><p>after</p>" {
		t.Errorf("got %q", got)
	}
}

func TestSanitizeHTMLUnwrapsHTMLFence(t *testing.T) {
	got := SanitizeHTML("```html\n<h1>Report</h1>\n```")
	if strings.Contains(got, "```") {
		t.Errorf("fence markers survived: %q", got)
	}
	if !strings.Contains(got, "<h1>Report</h1>") {
		t.Errorf("fenced content lost: %q", got)
	}
}

func TestSanitizeHTMLDropsOtherFences(t *testing.T) {
	got := SanitizeHTML("keep ```python\nprint(1)\n``` this")
	if strings.Contains(got, "print") {
		t.Errorf("non-HTML fence content survived: %q", got)
	}
}

func TestSanitizeHTMLRemovesCommentsAndRiskyAttrs(t *testing.T) {
	got := SanitizeHTML(`<!-- hidden --><div style="color:red" srcdoc="x">text</div>`)
	for _, bad := range []string{"<!--", "style=", "srcdoc="} {
		if strings.Contains(got, bad) {
			t.Errorf("%s survived: %q", bad, got)
		}
	}
	if !strings.Contains(got, ">text</div>") {
		t.Errorf("content lost: %q", got)
	}
}

func TestHasInlineImage(t *testing.T) {
	if !hasInlineImage(`<p><IMG src="x.png"></p>`) {
		t.Error("uppercase img tag not detected")
	}
	if hasInlineImage("<p>no images here</p>") {
		t.Error("false positive")
	}
}
