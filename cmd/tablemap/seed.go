package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tablemap/tablemap/core"
)

// seedEntry is one catalog object in a seed file: a JSON array of these,
// matching the shape emitted by the upstream enrichment pipeline.
type seedEntry struct {
	ObjectType  string   `json:"object_type"`
	ObjectName  string   `json:"object_name"`
	ParentTable string   `json:"parent_table,omitempty"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// loadCatalogFile reads catalog items from a JSON seed file.
func loadCatalogFile(path string) ([]*core.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	items := make([]*core.CatalogItem, 0, len(entries))
	for i, entry := range entries {
		objectType, err := core.ParseObjectType(entry.ObjectType)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w: %q", i, err, entry.ObjectType)
		}
		item := &core.CatalogItem{
			ObjectType:      objectType,
			ObjectName:      entry.ObjectName,
			ParentTableName: entry.ParentTable,
			Description:     entry.Description,
			Tags:            entry.Tags,
		}
		if err := core.ValidateCatalogItem(item); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, entry.ObjectName, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// sampleCatalog returns a small retail warehouse schema used to try the
// search pipeline end to end.
func sampleCatalog() []*core.CatalogItem {
	table := func(name, description string, tags ...string) *core.CatalogItem {
		return &core.CatalogItem{
			ObjectType:  core.ObjectTypeTable,
			ObjectName:  name,
			Description: description,
			Tags:        tags,
		}
	}
	column := func(parent, name, description string, tags ...string) *core.CatalogItem {
		return &core.CatalogItem{
			ObjectType:      core.ObjectTypeColumn,
			ObjectName:      name,
			ParentTableName: parent,
			Description:     description,
			Tags:            tags,
		}
	}

	return []*core.CatalogItem{
		table("customers", "One row per registered customer account, including contact details and signup metadata.", "crm"),
		column("customers", "customer_id", "Surrogate primary key for the customer account."),
		column("customers", "email", "Customer email address, unique per account, used for login and notifications.", "pii"),
		column("customers", "signup_date", "Date the customer created the account."),
		column("customers", "marketing_opt_in", "Whether the customer agreed to receive marketing email."),

		table("orders", "Customer orders with status, totals and fulfillment timestamps.", "sales"),
		column("orders", "order_id", "Surrogate primary key for the order."),
		column("orders", "customer_id", "Customer who placed the order, references customers."),
		column("orders", "order_status", "Lifecycle status: pending, paid, shipped, delivered or cancelled."),
		column("orders", "order_total_cents", "Total order value in cents, including tax and shipping."),
		column("orders", "placed_at", "Timestamp the order was placed, in UTC."),

		table("order_items", "Line items belonging to an order, one row per product per order.", "sales"),
		column("order_items", "order_id", "Order this line item belongs to."),
		column("order_items", "product_id", "Product sold on this line, references products."),
		column("order_items", "quantity", "Number of units of the product in this line item."),
		column("order_items", "unit_price_cents", "Price per unit in cents at the time of purchase."),

		table("products", "Product master data: names, categories and current list prices.", "catalog"),
		column("products", "product_id", "Surrogate primary key for the product."),
		column("products", "product_name", "Customer-facing display name of the product."),
		column("products", "category", "Merchandising category the product is listed under."),
		column("products", "list_price_cents", "Current list price in cents before discounts."),

		table("inventory_levels", "Current stock on hand per product and warehouse, refreshed hourly.", "supply-chain"),
		column("inventory_levels", "product_id", "Product the stock level refers to."),
		column("inventory_levels", "warehouse_code", "Warehouse holding the stock."),
		column("inventory_levels", "quantity_on_hand", "Units physically available in the warehouse."),

		table("shipments", "Outbound shipments with carrier tracking and delivery confirmation.", "logistics"),
		column("shipments", "shipment_id", "Surrogate primary key for the shipment."),
		column("shipments", "order_id", "Order the shipment fulfills."),
		column("shipments", "carrier", "Carrier transporting the shipment."),
		column("shipments", "delivered_at", "Timestamp of confirmed delivery, null while in transit."),

		table("page_views", "Clickstream page view events from the web storefront, one row per view.", "analytics"),
		column("page_views", "session_id", "Browser session the view belongs to."),
		column("page_views", "page_url", "URL of the viewed page."),
		column("page_views", "viewed_at", "Timestamp of the page view, in UTC."),

		table("daily_revenue", "Aggregated revenue per day, materialized nightly from orders.", "finance", "aggregate"),
		column("daily_revenue", "revenue_date", "Calendar day the revenue is aggregated for."),
		column("daily_revenue", "gross_revenue_cents", "Sum of order totals placed on the day, in cents."),
		column("daily_revenue", "order_count", "Number of orders placed on the day."),
	}
}
