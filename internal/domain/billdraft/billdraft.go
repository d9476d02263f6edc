// Package billdraft turns OCR text from a photographed receipt into line
// item drafts the user can correct before importing them.
//
// OCR output is tokenized into classified tokens (item, price, quantity).
// The user may reclassify or drop tokens; Segment then groups the token
// sequence into line items by following the item → price → quantity cycle.
package billdraft

import (
	"strings"

	"github.com/eshaffer321/ration-form/internal/domain/expense"
)

// Classification is what a token represents.
type Classification string

const (
	Item     Classification = "item"
	Price    Classification = "price"
	Quantity Classification = "quantity"
)

// cycle is the intended token order within one line item.
var cycle = []Classification{Item, Price, Quantity}

// position is c's index in the cycle, or -1 for unknown classifications.
func (c Classification) position() int {
	for i, candidate := range cycle {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is a known classification.
func (c Classification) Valid() bool {
	return c.position() >= 0
}

// Token is one classified piece of OCR text.
type Token struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	Classification Classification `json:"type"`
}

// Tokenize splits OCR text into tokens. Each line is expected to read
// "<item words...> <price> <quantity>": the last field is the quantity, the
// one before it the price, and the rest is the item text. Blank lines are
// skipped.
func Tokenize(text string, newID func() string) []Token {
	var tokens []Token
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "\f\r"))
		if line == "" {
			continue
		}

		fields := strings.Split(line, " ")
		quantity, fields := pop(fields)
		price, fields := pop(fields)

		tokens = append(tokens,
			Token{ID: newID(), Text: strings.Join(fields, " "), Classification: Item},
			Token{ID: newID(), Text: price, Classification: Price},
			Token{ID: newID(), Text: quantity, Classification: Quantity},
		)
	}
	return tokens
}

func pop(fields []string) (string, []string) {
	if len(fields) == 0 {
		return "", fields
	}
	return fields[len(fields)-1], fields[:len(fields)-1]
}

// Segment groups tokens into line item drafts.
//
// A token continues the current group only when its classification comes
// strictly later in the cycle than the previous token's; otherwise it opens
// a new group. Within a group each field takes the last token written to it.
// A group's ID is the ID of the token that opened it.
func Segment(tokens []Token) []expense.LineItem {
	var items []expense.LineItem
	for i, tok := range tokens {
		if i == 0 || tokens[i-1].Classification.position() >= tok.Classification.position() {
			items = append(items, expense.LineItem{ID: tok.ID})
		}
		assign(&items[len(items)-1], tok)
	}
	if items == nil {
		return []expense.LineItem{}
	}
	return items
}

func assign(item *expense.LineItem, tok Token) {
	switch tok.Classification {
	case Item:
		item.Label = tok.Text
	case Price:
		item.Price = tok.Text
	case Quantity:
		item.Amount = tok.Text
	}
}

// Reclassify returns a copy of tokens with the token id set to c.
func Reclassify(tokens []Token, id string, c Classification) []Token {
	next := make([]Token, len(tokens))
	copy(next, tokens)
	for i := range next {
		if next[i].ID == id {
			next[i].Classification = c
		}
	}
	return next
}

// Remove returns a copy of tokens without the token id.
func Remove(tokens []Token, id string) []Token {
	next := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.ID != id {
			next = append(next, tok)
		}
	}
	return next
}
