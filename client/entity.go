package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/iklobato/LightAPI/models"
)

// Create POSTs a new record to the entity's collection and returns the
// stored record including its assigned primary key.
func (c *Client) Create(ctx context.Context, entity string, payload models.Record) (models.Record, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(collectionPath(entity))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return decodeRecord(resp)
}

// Get fetches a single record by primary key.
func (c *Client) Get(ctx context.Context, entity string, id int64) (models.Record, error) {
	resp, err := c.request(ctx).Get(itemPath(entity, id))
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	return decodeRecord(resp)
}

// List fetches every record of the entity.
func (c *Client) List(ctx context.Context, entity string) ([]models.Record, error) {
	resp, err := c.request(ctx).Get(collectionPath(entity))
	if err != nil {
		return nil, fmt.Errorf("list request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var records []models.Record
	if err = json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	return records, nil
}

// Replace PUTs a full overwrite of the record: declared fields absent from
// payload are cleared server-side.
func (c *Client) Replace(ctx context.Context, entity string, id int64, payload models.Record) (models.Record, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put(itemPath(entity, id))
	if err != nil {
		return nil, fmt.Errorf("replace request: %w", err)
	}

	return decodeRecord(resp)
}

// Patch updates only the fields present in payload.
func (c *Client) Patch(ctx context.Context, entity string, id int64, payload models.Record) (models.Record, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Patch(itemPath(entity, id))
	if err != nil {
		return nil, fmt.Errorf("patch request: %w", err)
	}

	return decodeRecord(resp)
}

// Delete removes the record by primary key.
func (c *Client) Delete(ctx context.Context, entity string, id int64) error {
	resp, err := c.request(ctx).Delete(itemPath(entity, id))
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	return mapHTTPError(resp)
}

// Options fetches the entity's capability descriptor: effective verbs,
// allowed headers, cache max-age.
func (c *Client) Options(ctx context.Context, entity string) (models.OptionsResponse, error) {
	resp, err := c.request(ctx).Options(collectionPath(entity))
	if err != nil {
		return models.OptionsResponse{}, fmt.Errorf("options request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.OptionsResponse{}, err
	}

	var descriptor models.OptionsResponse
	if err = json.Unmarshal(resp.Body(), &descriptor); err != nil {
		return models.OptionsResponse{}, fmt.Errorf("decode options response: %w", err)
	}

	return descriptor, nil
}

// Head probes the entity's collection endpoint for existence.
func (c *Client) Head(ctx context.Context, entity string) error {
	resp, err := c.request(ctx).Head(collectionPath(entity))
	if err != nil {
		return fmt.Errorf("head request: %w", err)
	}

	return mapHTTPError(resp)
}

func collectionPath(entity string) string {
	return "/" + entity
}

func itemPath(entity string, id int64) string {
	return "/" + entity + "/" + strconv.FormatInt(id, 10)
}

func decodeRecord(resp *resty.Response) (models.Record, error) {
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}

	var record models.Record
	if err := json.Unmarshal(resp.Body(), &record); err != nil {
		return nil, fmt.Errorf("decode record response: %w", err)
	}

	return record, nil
}
