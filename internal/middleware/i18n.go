// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guanl20/Blocktrust/internal/i18n"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = "en"
	}

	return func(c *gin.Context) {
		c.Set("lang", resolveLang(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// resolveLang handles headers like "zh-TW,zh;q=0.9,en;q=0.8" by taking the
// first listed language.
func resolveLang(header, defaultLang string) string {
	if header == "" {
		return defaultLang
	}

	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	var lang string
	switch first {
	case "zh-TW", "zh-Hant", "zh_TW":
		lang = "zh_TW"
	case "en", "en-US", "en-GB":
		lang = "en"
	default:
		lang = strings.ReplaceAll(first, "-", "_")
	}

	if !i18n.IsSupported(lang) {
		return defaultLang
	}
	return lang
}
