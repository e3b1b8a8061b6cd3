package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nagrik-labs/nagrikai/internal/config"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/pagination"
	"github.com/nagrik-labs/nagrikai/internal/repository"
	"github.com/nagrik-labs/nagrikai/internal/service"
	"github.com/spf13/cobra"
)

func KnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage knowledge items",
		Long:  "Publish, list, and delete schemes and services in the knowledge store",
	}

	cmd.AddCommand(KnowledgePublishCmd())
	cmd.AddCommand(KnowledgeListCmd())
	cmd.AddCommand(KnowledgeDeleteCmd())

	return cmd
}

func KnowledgePublishCmd() *cobra.Command {
	var (
		kind     string
		category string
	)

	cmd := &cobra.Command{
		Use:   "publish <display-name> <content>",
		Short: "Publish a knowledge item",
		Long:  "Publish a scheme or service and queue its embedding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runKnowledgePublish(outputFormat, kind, args[0], category, args[1])
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().StringVar(&kind, "kind", "service", "Item kind (scheme or service)")
	cmd.Flags().StringVar(&category, "category", "", "Optional category label")

	return cmd
}

func runKnowledgePublish(outputFormat, kind, displayName, category, content string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	txRunner := repository.NewTxRunner(pool)
	knowledgeSvc := service.NewKnowledgeService(txRunner, knowledgeRepo)

	item, err := knowledgeSvc.Publish(ctx, service.PublishInput{
		Kind:        domain.ItemKind(kind),
		DisplayName: displayName,
		Category:    category,
		Content:     content,
	})
	if err != nil {
		return fmt.Errorf("failed to publish knowledge item: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":         item.ID,
			"kind":       item.Kind,
			"namespace":  item.Namespace,
			"name":       item.DisplayName,
			"created_at": item.CreatedAt,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Published %s '%s' (%s); embedding queued\n", item.Kind, item.DisplayName, item.ID)
	}

	return nil
}

func KnowledgeListCmd() *cobra.Command {
	var (
		namespace string
		limit     int
		cursor    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge items",
		Long:  "List published knowledge items, optionally filtered by namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runKnowledgeList(outputFormat, namespace, limit, cursor)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Filter by namespace (schemes or services)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runKnowledgeList(outputFormat, namespace string, limit int, cursorStr string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	knowledgeRepo := repository.NewKnowledgeRepository(pool)

	cursor, _ := pagination.DecodeCursor(cursorStr)
	result, err := knowledgeRepo.ListWithCursor(ctx, namespace, cursor, limit)
	if err != nil {
		return fmt.Errorf("failed to list knowledge items: %w", err)
	}

	if outputFormat == "json" {
		data := make([]map[string]interface{}, len(result.Items))
		for i, item := range result.Items {
			data[i] = map[string]interface{}{
				"id":         item.ID,
				"kind":       item.Kind,
				"namespace":  item.Namespace,
				"name":       item.DisplayName,
				"category":   item.Category,
				"updated_at": item.UpdatedAt,
			}
		}
		output := map[string]interface{}{
			"items":    data,
			"cursor":   result.NextCursor,
			"has_more": result.HasMore,
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		if len(result.Items) == 0 {
			fmt.Println("No knowledge items found")
			return nil
		}
		fmt.Println("Knowledge items:")
		for _, item := range result.Items {
			fmt.Printf("  %s: [%s] %s (updated: %s)\n", item.ID, item.Namespace, item.DisplayName, item.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		if result.HasMore && result.NextCursor != "" {
			fmt.Printf("\nMore results available. Use --cursor %s\n", result.NextCursor)
		}
	}

	return nil
}

func KnowledgeDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a knowledge item",
		Long:  "Remove a knowledge item from the store; it stops appearing in retrieval immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKnowledgeDelete(args[0])
		},
	}

	return cmd
}

func runKnowledgeDelete(id string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	if err := knowledgeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete knowledge item: %w", err)
	}

	fmt.Printf("Deleted knowledge item %s\n", id)
	return nil
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
