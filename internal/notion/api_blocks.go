package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
)

// BlocksEndpoint implements the /blocks endpoints.
type BlocksEndpoint struct {
	Children *BlockChildrenEndpoint

	t Transport
}

// Retrieve fetches a block.
func (e *BlocksEndpoint) Retrieve(ctx context.Context, ref any) (*Block, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "retrieve block", "id", id)
	b := &Block{}
	if err := call(ctx, e.t, "GET", "/blocks/"+id, nil, nil, b); err != nil {
		return nil, fmt.Errorf("failed to retrieve block %s: %w", id, err)
	}
	return b, nil
}

// Update writes the block content and refreshes b.
func (e *BlocksEndpoint) Update(ctx context.Context, b *Block) error {
	id, err := ObjectID(b)
	if err != nil {
		return err
	}
	content := b.Content()
	if content == nil {
		return fmt.Errorf("cannot update %q block %s", b.Type, id)
	}
	slog.InfoContext(ctx, "update block", "id", id, "type", b.Type)
	if err := call(ctx, e.t, "PATCH", "/blocks/"+id, nil, map[string]any{b.Type: content}, b); err != nil {
		return fmt.Errorf("failed to update block %s: %w", id, err)
	}
	return nil
}

// Delete archives a block and returns its new state.
func (e *BlocksEndpoint) Delete(ctx context.Context, ref any) (*Block, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "delete block", "id", id)
	b := &Block{}
	if err := call(ctx, e.t, "DELETE", "/blocks/"+id, nil, nil, b); err != nil {
		return nil, fmt.Errorf("failed to delete block %s: %w", id, err)
	}
	return b, nil
}

// Restore unarchives a block and returns its new state.
func (e *BlocksEndpoint) Restore(ctx context.Context, ref any) (*Block, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "restore block", "id", id)
	b := &Block{}
	if err := call(ctx, e.t, "PATCH", "/blocks/"+id, nil, map[string]any{"archived": false}, b); err != nil {
		return nil, fmt.Errorf("failed to restore block %s: %w", id, err)
	}
	return b, nil
}

// BlockChildrenEndpoint implements /blocks/{id}/children.
type BlockChildrenEndpoint struct {
	t Transport
}

// Append adds blocks at the end of parent, a page or block.
//
// Each block is refreshed from the server response when the response holds
// as many blocks as were sent.
func (e *BlockChildrenEndpoint) Append(ctx context.Context, parent any, blocks ...*Block) error {
	id, err := ObjectID(parent)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return nil
	}
	slog.InfoContext(ctx, "append blocks", "parent", id, "n", len(blocks))
	var resp PaginatedResponse[json.RawMessage]
	if err := call(ctx, e.t, "PATCH", "/blocks/"+id+"/children", nil, map[string]any{"children": blocks}, &resp); err != nil {
		return fmt.Errorf("failed to append to %s: %w", id, err)
	}
	if len(resp.Results) != len(blocks) {
		slog.WarnContext(ctx, "unexpected number of appended blocks; skipping refresh", "parent", id, "sent", len(blocks), "received", len(resp.Results))
		return nil
	}
	for i, raw := range resp.Results {
		if err := blocks[i].Refresh(raw); err != nil {
			return err
		}
	}
	return nil
}

// List iterates over the direct children of parent.
func (e *BlockChildrenEndpoint) List(ctx context.Context, parent any) iter.Seq2[*Block, error] {
	id, err := ObjectID(parent)
	if err != nil {
		return func(yield func(*Block, error) bool) { yield(nil, err) }
	}
	slog.InfoContext(ctx, "list blocks", "parent", id)
	return Paginate(ctx, 0, func(ctx context.Context, cursor string) (*PaginatedResponse[*Block], error) {
		var resp PaginatedResponse[*Block]
		if err := call(ctx, e.t, "GET", "/blocks/"+id+"/children", cursorQuery(cursor, MaxPageSize), nil, &resp); err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", id, err)
		}
		return &resp, nil
	})
}
