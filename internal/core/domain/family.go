package domain

// OrderFamily selects which side of the business an order belongs to.
// Sales and purchases are structurally analogous; everything that differs
// between them lives in the family descriptor.
type OrderFamily string

const (
	FamilySales     OrderFamily = "sales"
	FamilyPurchases OrderFamily = "purchases"
)

type FamilyDescriptor struct {
	Family             OrderFamily
	OrderTable         string
	ItemTable          string
	InstallmentTable   string
	CounterpartyColumn string
	CounterpartyTable  string
	DefaultDenyNote    string
}

var familyDescriptors = map[OrderFamily]FamilyDescriptor{
	FamilySales: {
		Family:             FamilySales,
		OrderTable:         "sales_orders",
		ItemTable:          "sales_order_items",
		InstallmentTable:   "sales_order_installments",
		CounterpartyColumn: "customer_id",
		CounterpartyTable:  "customers",
		DefaultDenyNote:    "Venda negada",
	},
	FamilyPurchases: {
		Family:             FamilyPurchases,
		OrderTable:         "purchase_orders",
		ItemTable:          "purchase_order_items",
		InstallmentTable:   "purchase_order_installments",
		CounterpartyColumn: "supplier_id",
		CounterpartyTable:  "suppliers",
		DefaultDenyNote:    "Compra negada",
	},
}

func (f OrderFamily) Valid() bool {
	_, ok := familyDescriptors[f]
	return ok
}

func (f OrderFamily) Descriptor() FamilyDescriptor {
	return familyDescriptors[f]
}
