package usecase

import "context"

// maxWalkPages bounds any pagination walk against a server that keeps
// handing out cursors.
const maxWalkPages = 1000

// walkPages drains a cursor-paginated listing. fetch returns one page of
// items plus the next cursor; the walk stops on an empty cursor, on a
// cursor already seen, or at the page cap.
func walkPages[T any](ctx context.Context, fetch func(ctx context.Context, pageToken string) ([]T, string, error)) ([]T, error) {
	var out []T
	seen := make(map[string]bool)
	token := ""
	for page := 0; page < maxWalkPages; page++ {
		items, next, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if next == "" || seen[next] || next == token {
			break
		}
		seen[next] = true
		token = next
	}
	return out, nil
}
