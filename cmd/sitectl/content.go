package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/codeharbor/portfolio/internal/content/collection"
	"github.com/codeharbor/portfolio/internal/content/domain"
)

// openPicture opens path as the Picture upload. An empty path means none.
func openPicture(path string) (*domain.File, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open picture: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &domain.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Content:     f,
	}, func() { f.Close() }, nil
}

func (a *app) withArticles(ctx context.Context, fn func(*collection.Articles) error) error {
	content, release, err := a.openContent(ctx)
	if err != nil {
		return err
	}
	defer release()

	items := collection.NewArticles(content.Articles, a.logger)
	defer items.Close()
	return fn(items)
}

func (a *app) withProjectItems(ctx context.Context, fn func(*collection.ProjectItems) error) error {
	content, release, err := a.openContent(ctx)
	if err != nil {
		return err
	}
	defer release()

	items := collection.NewProjectItems(content.ProjectItems, a.logger)
	defer items.Close()
	return fn(items)
}

func newArticlesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"article"},
		Short:   "List and edit articles",
	}

	var form struct {
		title, description, hyperlink, altText, picture string
	}
	bindForm := func(c *cobra.Command) {
		c.Flags().StringVar(&form.title, "title", "", "Article title")
		c.Flags().StringVar(&form.description, "description", "", "Short description")
		c.Flags().StringVar(&form.hyperlink, "hyperlink", "", "Link to the full article")
		c.Flags().StringVar(&form.altText, "alt-text", "", "Alt text for the picture")
		c.Flags().StringVar(&form.picture, "picture", "", "Path of an image to upload")
	}
	payload := func() (domain.ArticlePayload, func(), error) {
		picture, release, err := openPicture(form.picture)
		if err != nil {
			return domain.ArticlePayload{}, nil, err
		}
		return domain.ArticlePayload{
			Title:       form.title,
			Description: form.description,
			Hyperlink:   form.hyperlink,
			AltText:     form.altText,
			Picture:     picture,
		}, release, nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withArticles(cmd.Context(), func(items *collection.Articles) error {
				if err := items.Load(cmd.Context()); err != nil {
					return err
				}
				return a.renderArticles(cmd, items.Snapshot().Items)
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withArticles(cmd.Context(), func(items *collection.Articles) error {
				article, err := items.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.renderArticles(cmd, []domain.Article{*article})
			})
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := payload()
			if err != nil {
				return err
			}
			defer release()
			return a.withArticles(cmd.Context(), func(items *collection.Articles) error {
				if err := items.Create(cmd.Context(), p); err != nil {
					return err
				}
				return a.renderArticles(cmd, items.Snapshot().Items)
			})
		},
	}
	bindForm(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an article",
		Long:  "Replace every field of an article. The stored picture is kept unless --picture is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := payload()
			if err != nil {
				return err
			}
			defer release()
			return a.withArticles(cmd.Context(), func(items *collection.Articles) error {
				if err := items.Update(cmd.Context(), args[0], p); err != nil {
					return err
				}
				return a.renderArticles(cmd, items.Snapshot().Items)
			})
		},
	}
	bindForm(update)

	remove := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an article",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withArticles(cmd.Context(), func(items *collection.Articles) error {
				if err := items.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Deleted article %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, get, create, update, remove)
	return cmd
}

func (a *app) renderArticles(cmd *cobra.Command, articles []domain.Article) error {
	images := a.images()
	rows := make([][]string, 0, len(articles))
	for _, art := range articles {
		rows = append(rows, []string{art.ID, truncate(art.Title, 40), art.Hyperlink, truncate(images.Resolve(art.PictureURL), 60)})
	}
	return render(cmd.OutOrStdout(), a.output, articles, []string{"ID", "TITLE", "HYPERLINK", "IMAGE"}, rows)
}

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and edit portfolio projects",
	}

	var form struct {
		name, description, demoLink, picture string
		price                                float64
	}
	bindForm := func(c *cobra.Command) {
		c.Flags().StringVar(&form.name, "name", "", "Project name")
		c.Flags().StringVar(&form.description, "description", "", "Project description")
		c.Flags().StringVar(&form.demoLink, "demo-link", "", "Link to a live demo")
		c.Flags().Float64Var(&form.price, "price", 0, "Price")
		c.Flags().StringVar(&form.picture, "picture", "", "Path of an image to upload")
	}
	payload := func() (domain.ProjectItemPayload, func(), error) {
		picture, release, err := openPicture(form.picture)
		if err != nil {
			return domain.ProjectItemPayload{}, nil, err
		}
		return domain.ProjectItemPayload{
			Name:        form.name,
			Description: form.description,
			DemoLink:    form.demoLink,
			Price:       form.price,
			Picture:     picture,
		}, release, nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProjectItems(cmd.Context(), func(items *collection.ProjectItems) error {
				if err := items.Load(cmd.Context()); err != nil {
					return err
				}
				return a.renderProjectItems(cmd, items.Snapshot().Items)
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProjectItems(cmd.Context(), func(items *collection.ProjectItems) error {
				item, err := items.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.renderProjectItems(cmd, []domain.ProjectItem{*item})
			})
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := payload()
			if err != nil {
				return err
			}
			defer release()
			return a.withProjectItems(cmd.Context(), func(items *collection.ProjectItems) error {
				if err := items.Create(cmd.Context(), p); err != nil {
					return err
				}
				return a.renderProjectItems(cmd, items.Snapshot().Items)
			})
		},
	}
	bindForm(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a project",
		Long:  "Replace every field of a project. The stored picture is kept unless --picture is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := payload()
			if err != nil {
				return err
			}
			defer release()
			return a.withProjectItems(cmd.Context(), func(items *collection.ProjectItems) error {
				if err := items.Update(cmd.Context(), args[0], p); err != nil {
					return err
				}
				return a.renderProjectItems(cmd, items.Snapshot().Items)
			})
		},
	}
	bindForm(update)

	remove := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withProjectItems(cmd.Context(), func(items *collection.ProjectItems) error {
				if err := items.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Deleted project %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, get, create, update, remove)
	return cmd
}

func (a *app) renderProjectItems(cmd *cobra.Command, items []domain.ProjectItem) error {
	items = domain.SortNewestFirst(items)
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		created := ""
		if !p.CreatedAt.IsZero() {
			created = p.CreatedAt.Local().Format("2006-01-02")
		}
		rows = append(rows, []string{
			p.ID,
			truncate(p.Name, 40),
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.DemoLink,
			created,
		})
	}
	return render(cmd.OutOrStdout(), a.output, items, []string{"ID", "NAME", "PRICE", "DEMO", "CREATED"}, rows)
}
