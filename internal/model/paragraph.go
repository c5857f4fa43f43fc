package model

// ParagraphID uniquely identifies a paragraph
type ParagraphID string

// Paragraph is a piece of text players race to type
type Paragraph struct {
	ID      ParagraphID `json:"id"`
	Content string      `json:"content"`
}
