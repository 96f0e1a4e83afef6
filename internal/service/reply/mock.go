package reply

import (
	"context"
	"strings"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
)

// ImageCaption is the user text recorded alongside an image search.
const ImageCaption = "Find me items similar to this:"

const (
	weddingText = "Wedding Mode Active! ✨ Since you're looking for formals, check out these premium ensembles from Junaid Jamshed and Khaadi. Perfect for Mehndi or Barat!"
	eidText     = "Eid Mubarak! 🌙 Specially curated festive wear for you. These trending designs are selling fast at Dolmen Mall!"
	officeText  = "Formal & Sharp. 💼 Here are semi-formal kurtas and chinos from Outfitters that work perfectly for your office environment."
	lawnText    = "For summer, lawn suits are perfect! Here are trending picks from Khaadi and Gul Ahmed:"
	generalText = "Based on your style profile, here are some items you might love from Pakistani top brands:"
	imageText   = "I've analyzed your image! Here are similar items from Pakistani brands:"
	scanText    = "**Scanner Match!** 🔍 I found this item at **Gul Ahmed**. It's currently **Rs. 3,490** (15% cheaper than your current store!). Would you like me to find the nearest Gul Ahmed store?"
)

// Mock answers from canned blocks. It is deterministic and never fails.
type Mock struct {
	catalog catalog.Store
}

// NewMock returns a Mock over the given catalog.
func NewMock(store catalog.Store) *Mock {
	return &Mock{catalog: store}
}

func (m *Mock) Generate(_ context.Context, req Request) (Reply, error) {
	switch req.Kind {
	case KindImage:
		return Reply{
			Content:  imageText,
			Products: catalog.Pick(m.catalog, 1, 2, 3),
			Chips:    []string{"Show cheaper alternatives", "Same style in white"},
		}, nil
	case KindBarcode:
		return Reply{
			Content:  scanText,
			Products: catalog.Pick(m.catalog, 2),
			Chips:    []string{"Find the nearest Gul Ahmed store", "Track this price"},
		}, nil
	default:
		return m.textReply(req.Text, req.Mode), nil
	}
}

func (m *Mock) textReply(text string, mode chat.Mode) Reply {
	switch mode {
	case chat.ModeWedding:
		return m.weddingReply()
	case chat.ModeEid:
		return m.eidReply()
	case chat.ModeOffice:
		return m.officeReply()
	}

	// Default 模式只认 lawn / suit，其余一律走 style profile
	lower := strings.ToLower(text)
	if strings.Contains(lower, "lawn") || strings.Contains(lower, "suit") {
		return Reply{
			Content:  lawnText,
			Products: catalog.Pick(m.catalog, 1, 2),
			Chips:    []string{"Show me stitched options", "What colours are trending?", "Anything under Rs. 3,500?"},
		}
	}
	return Reply{
		Content:  generalText,
		Products: catalog.Pick(m.catalog, 1, 2, 3),
		Chips:    []string{"Show me lawn suits", "Something for a wedding", "Office wear ideas"},
	}
}

func (m *Mock) weddingReply() Reply {
	return Reply{
		Content:  weddingText,
		Products: m.catalog.ByBrand("Junaid Jamshed", "Khaadi"),
		Chips:    []string{"Show me Barat outfits", "Matching khussas?", "Anything in maroon?"},
	}
}

func (m *Mock) eidReply() Reply {
	return Reply{
		Content:  eidText,
		Products: catalog.Pick(m.catalog, 1, 4),
		Chips:    []string{"Kids' Eid collection", "Show pastel shades"},
	}
}

func (m *Mock) officeReply() Reply {
	return Reply{
		Content:  officeText,
		Products: catalog.Pick(m.catalog, 3, 4),
		Chips:    []string{"Pair with formal shoes", "Show me more chinos"},
	}
}
