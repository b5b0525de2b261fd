package assistant

import (
	"fmt"

	"bookhaven/pkg/scroll"
)

func (r *Registry) scrollTool() Tool {
	return Tool{
		Name:        "scroll",
		Description: "Scroll the current page. Amounts: small, medium, large, top, bottom, or browse for a slow sweep down the page. A new scroll cancels the one in flight.",
		Parameters: objectSchema(nil, map[string]any{
			"direction": stringParam("up or down, default down"),
			"amount":    stringParam("small, medium, large, top, bottom or browse; default medium"),
		}),
		Handler: func(args map[string]any) (string, error) {
			direction := scroll.Direction(argString(args, "direction"))
			if direction == "" {
				direction = scroll.DirectionDown
			}
			amount := scroll.Amount(argString(args, "amount"))
			if _, err := r.animator.Scroll(direction, amount); err != nil {
				return "", fmt.Errorf("scroll: %w", err)
			}
			switch amount {
			case scroll.AmountTop:
				return "Scrolling to the top of the page.", nil
			case scroll.AmountBottom:
				return "Scrolling to the bottom of the page.", nil
			case scroll.AmountBrowse:
				return "Slowly scrolling through the page so you can browse.", nil
			default:
				return fmt.Sprintf("Scrolling %s.", direction), nil
			}
		},
	}
}
