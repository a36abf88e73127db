package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/models"
	"github.com/shashiranjanraj/catalogue/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260301000001_create_blog_tables", &CreateBlogTables{})
	migration.Register("20260301000002_create_inbox_tables", &CreateInboxTables{})
	migration.Register("20260301000003_create_admin_users_table", &CreateAdminUsersTable{})
	migration.Register("20260301000004_add_live_slug_indexes", &AddLiveSlugIndexes{})
}

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductKeyFeature{},
		&models.ProductSpecification{},
	)
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"product_specifications",
		"product_key_features",
		"product_images",
		"products",
		"categories",
	)
}

type CreateBlogTables struct{}

func (m *CreateBlogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Blog{}, &models.BlogTag{})
}

func (m *CreateBlogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("blog_tags", "blogs")
}

type CreateInboxTables struct{}

func (m *CreateInboxTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Enquiry{}, &models.Contact{})
}

func (m *CreateInboxTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("enquiries", "contacts")
}

type CreateAdminUsersTable struct{}

func (m *CreateAdminUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.AdminUser{})
}

func (m *CreateAdminUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("admin_users")
}

var sluggedTables = []string{"categories", "products", "blogs"}

type AddLiveSlugIndexes struct{}

func (m *AddLiveSlugIndexes) Up(db *gorm.DB) error {
	for _, t := range sluggedTables {
		if err := liveSlugIndex(db, t); err != nil {
			return err
		}
	}
	return nil
}

func (m *AddLiveSlugIndexes) Down(db *gorm.DB) error {
	for _, t := range sluggedTables {
		if err := dropIndex(db, t, "ux_"+t+"_slug_live"); err != nil {
			return err
		}
	}
	return nil
}
