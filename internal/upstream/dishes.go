package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"talanch-backoffice/internal/domain"
)

func (c *Client) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	body, err := c.get(ctx, "/dish", nil)
	if err != nil {
		return nil, err
	}

	var dishes []domain.Dish
	if err := decodeList(body, &dishes); err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return dishes, nil
}

func (c *Client) GetDish(ctx context.Context, id int) (*domain.Dish, error) {
	body, err := c.get(ctx, "/dish/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var dish domain.Dish
	if err := json.Unmarshal(body, &dish); err != nil {
		return nil, fmt.Errorf("get dish %d: %w: %v", id, ErrBadShape, err)
	}
	return &dish, nil
}

// CreateDish posts the add-dish form as multipart. IsSalad is derived from
// the name, and the quantity always starts at 1, matching the form defaults.
func (c *Client) CreateDish(ctx context.Context, dish domain.NewDish) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	w.WriteField("DishName", dish.Name)
	w.WriteField("DishDescription", dish.Description)
	w.WriteField("DishQuantity", "1")
	w.WriteField("IsSalad", strconv.FormatBool(domain.Classify(dish.Name) == domain.CategorySalad))
	w.WriteField("DishPrice", domain.NormalizePrice(dish.Price))
	if len(dish.Photo) > 0 {
		part, err := w.CreateFormFile("DishPhoto", dish.PhotoName)
		if err != nil {
			return err
		}
		part.Write(dish.Photo)
	}
	if err := w.Close(); err != nil {
		return err
	}

	code, err := c.send(ctx, http.MethodPost, "/dish", w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodPost, "/dish", code)
	}
	return nil
}

// UpdateDish patches a dish with only the touched fields. An empty patch is
// the caller's responsibility to reject; nothing is sent for it here either.
func (c *Client) UpdateDish(ctx context.Context, id int, patch domain.DishPatch) error {
	if patch.Empty() {
		return nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if patch.Name != nil {
		w.WriteField("dishName", *patch.Name)
	}
	if patch.Description != nil {
		w.WriteField("dishDescription", *patch.Description)
	}
	if patch.Price != nil {
		w.WriteField("dishPrice", domain.NormalizePrice(*patch.Price))
	}
	if len(patch.Photo) > 0 {
		part, err := w.CreateFormFile("Photo", patch.PhotoName)
		if err != nil {
			return err
		}
		part.Write(patch.Photo)
	}
	if err := w.Close(); err != nil {
		return err
	}

	path := "/dish/" + strconv.Itoa(id)
	code, err := c.send(ctx, http.MethodPatch, path, w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodPatch, path, code)
	}
	return nil
}

func (c *Client) DeleteDish(ctx context.Context, id int) error {
	path := "/dish/" + strconv.Itoa(id)
	code, err := c.send(ctx, http.MethodDelete, path, "", nil)
	if err != nil {
		return err
	}
	if code >= 300 {
		return statusErr(http.MethodDelete, path, code)
	}
	return nil
}
