package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mhst/internal/client/media"
	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/filex"
	"github.com/dmitrijs2005/mhst/internal/netx"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// Articles lists the articles of category, newest first. An empty category
// lists everything.
func (a *App) Articles(ctx context.Context, category string) error {
	if category == "" {
		category = common.AllCategories
	}

	sub, err := a.articles.WatchByCategory(ctx, category)
	if err != nil {
		return err
	}
	defer sub.Close()

	list, err := sub.Next(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No articles")
		return nil
	}
	for _, ar := range list {
		a.printf("#%d [%s] %s - %s\n", ar.ID, ar.Category, ar.Title, ar.Description)
	}
	return nil
}

func (a *App) Article(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	ar, err := a.articles.GetByID(ctx, n)
	if err != nil {
		return err
	}
	if ar == nil {
		a.println("Article not found")
		return nil
	}

	a.printf("%s\n[%s]\n\n%s\n\n%s\n", ar.Title, ar.Category, ar.Description, ar.Content)

	url, err := a.articles.ImageURL(ctx, ar)
	if err != nil {
		return err
	}
	if url != "" {
		a.printf("Image: %s\n", url)
	}
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	list, err := a.articles.Categories(ctx)
	if err != nil {
		return err
	}
	a.println(strings.Join(list, ", "))
	return nil
}

// Therapists lists the directory ordered by name.
func (a *App) Therapists(ctx context.Context) error {
	sub, err := a.therapists.WatchAll(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	list, err := sub.Next(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No therapists")
		return nil
	}
	for _, th := range list {
		a.printf("#%d %s - %s (%s)\n", th.ID, th.Name, th.Specialization, th.Location)
	}
	return nil
}

func (a *App) Therapist(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	th, err := a.therapists.GetByID(ctx, n)
	if err != nil {
		return err
	}
	if th == nil {
		a.println("Therapist not found")
		return nil
	}

	a.printf("%s\n%s\n", th.Name, th.Specialization)
	a.printf("Phone:        %s\n", th.Phone)
	a.printf("Email:        %s\n", th.Email)
	a.printf("Location:     %s\n", th.Location)
	a.printf("Availability: %s\n", th.Availability)

	url, err := a.therapists.ImageURL(ctx, th)
	if err != nil {
		return err
	}
	if url != "" {
		a.printf("Photo:        %s\n", url)
	}
	return nil
}

// Photo downloads a therapist's photo into path.
func (a *App) Photo(ctx context.Context, id, path string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	th, err := a.therapists.GetByID(ctx, n)
	if err != nil {
		return err
	}
	if th == nil {
		a.println("Therapist not found")
		return nil
	}

	url, err := a.therapists.ImageURL(ctx, th)
	if err != nil {
		return err
	}
	if !media.IsURL(url) {
		a.println("No downloadable photo")
		return nil
	}

	data, err := netx.Download(ctx, a.httpClient, url)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return err
	}
	a.printf("Saved %d bytes to %s\n", len(data), path)
	return nil
}
