package dto

import (
	"time"

	"github.com/ERIC-757875/TutorHub/internal/model"
)

// ── 卡片展示 ──

// Card 一位老师的展示卡片
type Card struct {
	Index        int           `json:"index"`
	Name         string        `json:"name"`
	Gender       model.Gender  `json:"gender"`
	GenderMarker string        `json:"gender_marker,omitempty"`
	Headline     string        `json:"headline,omitempty"` // 如 "¥200/h"，无价格时为空
	Lines        []CardLine    `json:"lines"`
	Sections     []CardSection `json:"sections"` // 可展开的长文本
	Contact      string        `json:"contact"`  // 点击“联系老师”后显示的固定说明
}

// CardLine 卡片正文的一行
type CardLine struct {
	Label    string `json:"label,omitempty"`
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// CardSection 可展开的长文本
type CardSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Grid 按列排好的卡片
type Grid struct {
	Columns [][]Card `json:"columns"`
	Total   int      `json:"total"`
}

// FilterOption 一个可筛选列的候选值
type FilterOption struct {
	Field  model.Field `json:"field"`
	Param  string      `json:"param"`
	Label  string      `json:"label"`
	Values []string    `json:"values"`
}

// ── 响应 ──

// TutorListResponse GET /api/v1/tutors
type TutorListResponse struct {
	Variant       string `json:"variant,omitempty"`
	SourceMissing bool   `json:"source_missing"`
	Total         int    `json:"total"`
	List          []Card `json:"list"`
}

// FilterOptionsResponse GET /api/v1/tutors/options
type FilterOptionsResponse struct {
	Variant       string         `json:"variant,omitempty"`
	SourceMissing bool           `json:"source_missing"`
	Searchable    []model.Field  `json:"searchable"`
	Options       []FilterOption `json:"options"`
}

// RefreshResponse POST /api/v1/tutors/refresh
type RefreshResponse struct {
	Variant       string `json:"variant,omitempty"`
	SourceMissing bool   `json:"source_missing"`
	Total         int    `json:"total"`
	LoadedAt      string `json:"loaded_at"`
}

// GalleryPage 首页渲染所需的全部数据
type GalleryPage struct {
	Title         string
	Variant       string
	SourceMissing bool
	Total         int
	Query         string
	Options       []FilterOption
	Selected      map[string]map[string]bool // param -> value -> 是否选中
	Grid          Grid
	LoadedAt      time.Time
}

// IsSelected 模板中判断某个选项是否选中
func (p *GalleryPage) IsSelected(param, value string) bool {
	return p.Selected[param][value]
}
