package service

import (
	"strings"

	"github.com/ERIC-757875/TutorHub/internal/dto"
	"github.com/ERIC-757875/TutorHub/internal/model"
)

// DefaultColumns 默认列数
const DefaultColumns = 3

// BuildCards 按表结构的卡片定义生成卡片，顺序与输入一致
func BuildCards(v *model.SchemaVariant, records []model.TutorRecord, contact string) []dto.Card {
	cards := make([]dto.Card, 0, len(records))
	if v == nil {
		return cards
	}
	for i := range records {
		cards = append(cards, buildCard(v, i, &records[i], contact))
	}
	return cards
}

// Layout 轮转分列：第 i 张卡片放到第 i mod k 列，列内保持原顺序
func Layout(cards []dto.Card, columns int) dto.Grid {
	if columns < 1 {
		columns = DefaultColumns
	}
	grid := dto.Grid{Columns: make([][]dto.Card, columns), Total: len(cards)}
	for j := range grid.Columns {
		grid.Columns[j] = []dto.Card{}
	}
	for i, c := range cards {
		j := i % columns
		grid.Columns[j] = append(grid.Columns[j], c)
	}
	return grid
}

func buildCard(v *model.SchemaVariant, idx int, rec *model.TutorRecord, contact string) dto.Card {
	card := dto.Card{
		Index:    idx,
		Name:     rec.Name,
		Gender:   rec.GenderKind(),
		Lines:    []dto.CardLine{},
		Sections: []dto.CardSection{},
		Contact:  contact,
	}

	switch card.Gender {
	case model.GenderMale:
		card.GenderMarker = "♂️"
	case model.GenderFemale:
		card.GenderMarker = "♀️"
	}

	if h := v.Card.Headline; h != nil {
		card.Headline = renderPart(rec, *h)
	}

	for _, line := range v.Card.Lines {
		var parts []string
		for _, p := range line.Parts {
			if s := renderPart(rec, p); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			continue
		}
		card.Lines = append(card.Lines, dto.CardLine{
			Label:    line.Label,
			Text:     strings.Join(parts, line.Sep),
			Emphasis: line.Emphasis,
		})
	}

	for _, sec := range v.Card.Sections {
		if body, ok := rec.Value(sec.Field); ok {
			card.Sections = append(card.Sections, dto.CardSection{Title: sec.Title, Body: body})
		}
	}

	return card
}

func renderPart(rec *model.TutorRecord, p model.CardPart) string {
	val, ok := rec.Value(p.Field)
	if !ok {
		return ""
	}
	return p.Prefix + val + p.Suffix
}
