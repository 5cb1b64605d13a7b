package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"folio/internal/logger"
	"folio/internal/services"

	"github.com/gin-gonic/gin"
)

// sitemapSize sitemap 中最多列出的作品数
const sitemapSize = 500

type SEOHandler struct {
	portfolios *services.PortfolioService
	siteURL    string
}

func NewSEOHandler(portfolios *services.PortfolioService, siteURL string) *SEOHandler {
	return &SEOHandler{portfolios: portfolios, siteURL: siteURL}
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 禁止爬取个人设置和写操作
Disallow: /settings
Disallow: /submit
Disallow: /login
Disallow: /signup
Disallow: /portfolios/*/like
Disallow: /portfolios/*/content

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML 首页 + 最近发布的作品
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	now := time.Now()
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{{
			Loc:        h.siteURL + "/",
			LastMod:    now.Format("2006-01-02"),
			ChangeFreq: "daily",
			Priority:   1.0,
		}},
	}

	recent, err := h.portfolios.Recent(c.Request.Context(), sitemapSize)
	if err != nil {
		// 上游不可用时仍返回首页
		logger.CtxWithError(c.Request.Context(), "load sitemap portfolios failed", err)
	}
	for _, p := range recent {
		updated := p.UpdatedAt.Time
		if updated.IsZero() {
			updated = p.CreatedAt.Time
		}

		// 根据新旧程度调整优先级
		priority, freq := 0.6, "weekly"
		if days := now.Sub(p.CreatedAt.Time).Hours() / 24; days < 7 {
			priority, freq = 0.8, "daily"
		} else if days < 30 {
			priority = 0.7
		}

		u := sitemapURL{
			Loc:        fmt.Sprintf("%s/portfolios/%d", h.siteURL, p.PortfolioID),
			ChangeFreq: freq,
			Priority:   priority,
		}
		if !updated.IsZero() {
			u.LastMod = updated.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
