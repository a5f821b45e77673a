package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"talanch-backoffice/internal/domain"
)

// menuWire defers dish decoding because the upstream nests the dish list in
// its own envelope ({"dishes": {"$values": [...]}}).
type menuWire struct {
	MenuID         int             `json:"menuId"`
	Description    string          `json:"menuDescription"`
	IsMenuOfTheDay bool            `json:"isMenuOfTheDay"`
	Dishes         json.RawMessage `json:"dishes"`
}

func (w menuWire) toMenu() (domain.Menu, error) {
	menu := domain.Menu{
		ID:             w.MenuID,
		Description:    w.Description,
		IsMenuOfTheDay: w.IsMenuOfTheDay,
	}
	if len(w.Dishes) > 0 && string(w.Dishes) != "null" {
		if err := decodeList(w.Dishes, &menu.Dishes); err != nil {
			return menu, fmt.Errorf("menu %d dishes: %w", w.MenuID, err)
		}
	}
	return menu, nil
}

func (c *Client) ListMenus(ctx context.Context) ([]domain.Menu, error) {
	body, err := c.get(ctx, "/menu", nil)
	if err != nil {
		return nil, err
	}

	var wires []menuWire
	if err := decodeList(body, &wires); err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}

	menus := make([]domain.Menu, 0, len(wires))
	for _, w := range wires {
		menu, err := w.toMenu()
		if err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	return menus, nil
}

func (c *Client) GetMenu(ctx context.Context, id int) (*domain.Menu, error) {
	body, err := c.get(ctx, "/menu/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var w menuWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("get menu %d: %w: %v", id, ErrBadShape, err)
	}
	menu, err := w.toMenu()
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (c *Client) ListMenuDishes(ctx context.Context, menuID int) ([]domain.MenuDish, error) {
	body, err := c.get(ctx, "/menu/"+strconv.Itoa(menuID)+"/dishes", nil)
	if err != nil {
		return nil, err
	}

	var dishes []domain.MenuDish
	if err := decodeList(body, &dishes); err != nil {
		return nil, fmt.Errorf("list menu %d dishes: %w", menuID, err)
	}
	return dishes, nil
}

func (c *Client) CreateMenu(ctx context.Context, menu domain.NewMenu) error {
	payload, err := json.Marshal(menu)
	if err != nil {
		return err
	}

	code, err := c.sendJSON(ctx, http.MethodPost, "/menu", payload)
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodPost, "/menu", code)
	}
	return nil
}

// AddDishToMenu attaches one dish with a quantity. The upstream answers 400
// when the dish is already in the menu; that case gets its own error so the
// caller can tell it apart from a generic failure.
func (c *Client) AddDishToMenu(ctx context.Context, menuID, dishID, quantity int) error {
	path := fmt.Sprintf("/menu/%d/%d?quantity=%d", menuID, dishID, quantity)
	code, err := c.send(ctx, http.MethodPost, path, "", nil)
	if err != nil {
		return err
	}
	if code == http.StatusBadRequest {
		return ErrDishAlreadyInMenu
	}
	if code >= 300 {
		return statusErr(http.MethodPost, path, code)
	}
	return nil
}

// RemoveDishFromMenu issues the upstream's body-bearing DELETE.
func (c *Client) RemoveDishFromMenu(ctx context.Context, menuID, dishID int) error {
	payload, err := json.Marshal(map[string]int{"menuId": menuID, "dishId": dishID})
	if err != nil {
		return err
	}

	code, err := c.sendJSON(ctx, http.MethodDelete, "/menu", payload)
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodDelete, "/menu", code)
	}
	return nil
}

type menuUpdatePayload struct {
	DishID         int    `json:"dishId"`
	Quantity       int    `json:"quantity"`
	NewDescription string `json:"newDescription"`
}

func (c *Client) postMenuUpdate(ctx context.Context, menuID int, payload menuUpdatePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	path := "/menu/" + strconv.Itoa(menuID)
	code, err := c.sendJSON(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodPost, path, code)
	}
	return nil
}

// UpdateMenuDescription changes only the description. The upstream routes
// this through the same endpoint as AddDishWithDescription and recognizes
// the intent by dishId -1; that encoding stays on the wire only.
func (c *Client) UpdateMenuDescription(ctx context.Context, menuID int, description string) error {
	return c.postMenuUpdate(ctx, menuID, menuUpdatePayload{
		DishID:         -1,
		NewDescription: description,
	})
}

func (c *Client) AddDishWithDescription(ctx context.Context, menuID, dishID, quantity int, description string) error {
	return c.postMenuUpdate(ctx, menuID, menuUpdatePayload{
		DishID:         dishID,
		Quantity:       quantity,
		NewDescription: description,
	})
}

func (c *Client) DeleteMenu(ctx context.Context, id int) error {
	path := "/menu/" + strconv.Itoa(id)
	code, err := c.send(ctx, http.MethodDelete, path, "", nil)
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodDelete, path, code)
	}
	return nil
}

func (c *Client) SetMenuOfTheDay(ctx context.Context, menuID int) error {
	payload, err := json.Marshal(map[string]int{"menuId": menuID})
	if err != nil {
		return err
	}

	code, err := c.sendJSON(ctx, http.MethodPatch, "/menu/setMenuOfTheDay", payload)
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodPatch, "/menu/setMenuOfTheDay", code)
	}
	return nil
}
