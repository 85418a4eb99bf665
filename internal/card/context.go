package card

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/emoji"
	"github.com/yildizm/errcard/internal/theme"
)

// AttributeRows lists the non-empty exception attributes as label/value pairs
func AttributeRows(attrs common.ExceptionAttributes) [][2]string {
	var rows [][2]string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			rows = append(rows, [2]string{label, value})
		}
	}

	add("Type", attrs.Type)
	add("Level", attrs.Level)
	if attrs.Handled != nil {
		add("Handled", yesNo(*attrs.Handled))
	}
	if attrs.Synthetic {
		add("Synthetic", "yes")
	}
	if attrs.Runtime != "unknown" {
		add("Runtime", attrs.Runtime)
	}
	add("Library", attrs.Library+" "+attrs.LibraryVersion)
	add("Browser", attrs.Browser+" "+attrs.BrowserVersion)
	add("OS", attrs.OS+" "+attrs.OSVersion)
	add("URL", attrs.URL)
	add("App", attrs.AppNamespace)
	for _, ingestionError := range attrs.IngestionErrors {
		add("Ingestion error", ingestionError)
	}
	return rows
}

// AdditionalRows lists additional properties sorted by key
func AdditionalRows(additional map[string]interface{}) [][2]string {
	keys := make([]string, 0, len(additional))
	for key := range additional {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][2]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, [2]string{key, fmt.Sprintf("%v", additional[key])})
	}
	return rows
}

// renderContextPanel renders exception attributes and additional properties
func renderContextPanel(props common.ErrorProperties, loading bool, styles *theme.Styles) string {
	if loading {
		return styles.Muted.Render(emoji.Prefix("loading") + "Loading context...")
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render(emoji.Prefix("context") + "Context"))
	b.WriteString("\n")

	for _, row := range AttributeRows(props.ExceptionAttributes) {
		b.WriteString(styles.Muted.Render(row[0]+": ") + styles.Body.Render(row[1]))
		b.WriteString("\n")
	}

	if additional := AdditionalRows(props.AdditionalProperties); len(additional) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Header.Render("Properties"))
		b.WriteString("\n")
		for _, row := range additional {
			b.WriteString(styles.Muted.Render(row[0]+": ") + styles.Body.Render(row[1]))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// AttributesPreview is the one-line summary shown in the action row
func AttributesPreview(attrs common.ExceptionAttributes) string {
	var parts []string
	if attrs.Handled != nil {
		if *attrs.Handled {
			parts = append(parts, "handled")
		} else {
			parts = append(parts, "unhandled")
		}
	}
	if attrs.Runtime != "" && attrs.Runtime != "unknown" {
		parts = append(parts, attrs.Runtime)
	}
	if attrs.Browser != "" {
		parts = append(parts, attrs.Browser)
	}
	if attrs.OS != "" {
		parts = append(parts, attrs.OS)
	}
	return strings.Join(parts, " · ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
