package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGenerateHandle(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Zoë Smith", 30, "zoe_smith"},
		{"  __Ann-Marie O'Neil__ ", 30, "annmarie_oneil"},
		{"Averyveryverylongdisplayname here", 10, "averyveryv"},
		{"!!!", 30, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateHandle(tt.in, tt.max), tt.in)
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit, offset := NormalizePage(0, 0, 20, 50)
	assert.Equal(t, []int{1, 20, 0}, []int{page, limit, offset})

	page, limit, offset = NormalizePage(3, 500, 20, 50)
	assert.Equal(t, []int{3, 50, 100}, []int{page, limit, offset})
}

func TestQueryBuilder(t *testing.T) {
	var b QueryBuilder
	assert.Equal(t, "", b.Where())

	b.Add("status = ?", "active")
	b.Add("expires_at BETWEEN ? AND ?", 1, 2)
	ph := b.Arg("extra")

	assert.Equal(t, "WHERE status = $1 AND expires_at BETWEEN $2 AND $3", b.Where())
	assert.Equal(t, "$4", ph)
	assert.Equal(t, []any{"active", 1, 2, "extra"}, b.Args())
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.7"},
		{"bad forwarded falls back", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.4"}, "10.0.0.2:5000", "198.51.100.4"},
		{"socket address", nil, "192.0.2.10:4321", "192.0.2.10"},
		{"unparseable", nil, "nowhere", "127.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ExtractClientIP(c))
		})
	}
}
