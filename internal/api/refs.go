package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// listPaged walks a reference endpoint page by page until a short page
// comes back, the same way the backend's web client does.
func listPaged[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	page := 1
	pageSize := 500

	for {
		url := fmt.Sprintf("%s?page=%d&limit=%d", path, page, pageSize)
		data, err := c.doRequest(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing response: %w", err)
		}

		all = append(all, items...)

		if len(items) < pageSize {
			break
		}
		page++
	}

	return all, nil
}

func (c *Client) ListClients(ctx context.Context) ([]ClientRef, error) {
	if cached := c.cache.clients.get(); cached != nil {
		return cached, nil
	}
	clients, err := listPaged[ClientRef](ctx, c, "/clients")
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	c.cache.clients.set(clients)
	return clients, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	if cached := c.cache.jobs.get(); cached != nil {
		return cached, nil
	}
	jobs, err := listPaged[Job](ctx, c, "/jobs")
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	c.cache.jobs.set(jobs)
	return jobs, nil
}

func (c *Client) ListTeamMembers(ctx context.Context) ([]TeamMember, error) {
	if cached := c.cache.team.get(); cached != nil {
		return cached, nil
	}
	team, err := listPaged[TeamMember](ctx, c, "/team-members")
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	c.cache.team.set(team)
	return team, nil
}

func (c *Client) ListJobTypes(ctx context.Context) ([]JobType, error) {
	if cached := c.cache.jobTypes.get(); cached != nil {
		return cached, nil
	}
	types, err := listPaged[JobType](ctx, c, "/job-types")
	if err != nil {
		return nil, fmt.Errorf("listing job types: %w", err)
	}
	c.cache.jobTypes.set(types)
	return types, nil
}

func (c *Client) ListTimeCategories(ctx context.Context) ([]TimeCategory, error) {
	if cached := c.cache.categories.get(); cached != nil {
		return cached, nil
	}
	cats, err := listPaged[TimeCategory](ctx, c, "/time-categories")
	if err != nil {
		return nil, fmt.Errorf("listing time categories: %w", err)
	}
	c.cache.categories.set(cats)
	return cats, nil
}

// InvalidateCache drops the cached reference lists so the next call
// refetches them.
func (c *Client) InvalidateCache() {
	c.cache.Invalidate()
}
