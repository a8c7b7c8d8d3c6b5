package database

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// User is an admin panel account. Accounts are created by the cmd/admin CLI,
// never through the public API.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	Name      string    `gorm:"size:255" json:"name"`
	Role      string    `gorm:"size:32;default:admin" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// News is a published or draft article. Content holds rich HTML.
type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:longtext;not null" json:"content"`
	Excerpt   string    `gorm:"type:text" json:"excerpt"`
	Image     *string   `gorm:"size:255" json:"image"`
	Status    string    `gorm:"size:16;default:published;index" json:"status"`
	AuthorID  uint      `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (News) TableName() string { return "news" }

// VillageProfile is a singleton row. The unique singleton_key column lets the
// upsert run as a single atomic ON CONFLICT statement instead of a racy
// check-then-insert.
type VillageProfile struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SingletonKey     string    `gorm:"column:singleton_key;uniqueIndex;size:16" json:"-"`
	Description      string    `gorm:"type:text" json:"description"`
	Vision           string    `gorm:"type:text" json:"vision"`
	Mission          string    `gorm:"type:text" json:"mission"`
	History          *string   `gorm:"type:text" json:"history"`
	Area             string    `gorm:"size:32" json:"area"`
	Population       int       `json:"population"`
	Families         int       `json:"families"`
	DusunCount       int       `gorm:"column:dusun_count" json:"dusun_count"`
	NorthBorder      string    `gorm:"size:255" json:"north_border"`
	EastBorder       string    `gorm:"size:255" json:"east_border"`
	SouthBorder      string    `gorm:"size:255" json:"south_border"`
	WestBorder       string    `gorm:"size:255" json:"west_border"`
	MainImage        *string   `gorm:"size:255" json:"main_image"`
	StructureImage   *string   `gorm:"size:255" json:"structure_image"`
	MapImage         *string   `gorm:"size:255" json:"map_image"`
	HeadVillageImage *string   `gorm:"size:255" json:"head_village_image"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (VillageProfile) TableName() string { return "village_profile" }

// Infographics is a singleton row of demographic counts. The five breakdown
// columns store category→count maps as JSON.
type Infographics struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	SingletonKey     string         `gorm:"column:singleton_key;uniqueIndex;size:16" json:"-"`
	TotalPopulation  int            `json:"total_population"`
	TotalFamilies    int            `json:"total_families"`
	MalePopulation   int            `json:"male_population"`
	FemalePopulation int            `json:"female_population"`
	AgeGroups        datatypes.JSON `json:"age_groups"`
	EducationLevels  datatypes.JSON `json:"education_levels"`
	Occupations      datatypes.JSON `json:"occupations"`
	MaritalStatus    datatypes.JSON `json:"marital_status"`
	Religions        datatypes.JSON `json:"religions"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Infographics) TableName() string { return "infographics" }

// ShopProduct is a local shop listing. Public listings only show active rows.
type ShopProduct struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	Category    string          `gorm:"size:64;index" json:"category"`
	Image       *string         `gorm:"size:255" json:"image"`
	Phone       string          `gorm:"size:50;not null" json:"phone"`
	Status      string          `gorm:"size:16;default:active;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (ShopProduct) TableName() string { return "shop_products" }

// OrganizationMember is an entry on the village government structure page.
type OrganizationMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Position  string    `gorm:"size:255;not null" json:"position"`
	Image     *string   `gorm:"size:255" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrganizationMember) TableName() string { return "organization_members" }

// Banner is a homepage carousel slide, ordered by sort_order then recency.
type Banner struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Link        *string   `gorm:"size:512" json:"link"`
	Image       *string   `gorm:"size:255" json:"image"`
	Status      string    `gorm:"size:16;default:active;index" json:"status"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Banner) TableName() string { return "banners" }

// ContactSettings is a singleton row with the village contact details.
type ContactSettings struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SingletonKey string    `gorm:"column:singleton_key;uniqueIndex;size:16" json:"-"`
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Email        string    `gorm:"size:100" json:"email"`
	FacebookURL  string    `gorm:"size:255" json:"facebook_url"`
	InstagramURL string    `gorm:"size:255" json:"instagram_url"`
	YoutubeURL   string    `gorm:"size:255" json:"youtube_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ContactSettings) TableName() string { return "contact_settings" }

// APBYear is one fiscal year of the village budget. The total columns are a
// cached aggregate recomputed from line items on every item write; PUT on the
// year may still override them manually.
type APBYear struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Year             int             `gorm:"uniqueIndex;not null" json:"year"`
	Status           string          `gorm:"size:16;default:draft;index" json:"status"`
	TotalIncome      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_income"`
	TotalExpenditure decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_expenditure"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (APBYear) TableName() string { return "apb_years" }

type APBIncomeCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (APBIncomeCategory) TableName() string { return "apb_income_categories" }

type APBExpenditureCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (APBExpenditureCategory) TableName() string { return "apb_expenditure_categories" }

// APBIncome is a budgeted income line item under a year and category.
type APBIncome struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	YearID         uint              `gorm:"index:idx_income_year_category;not null" json:"year_id"`
	CategoryID     uint              `gorm:"index:idx_income_year_category;not null" json:"category_id"`
	Source         string            `gorm:"size:255;not null" json:"source"`
	Description    string            `gorm:"type:text" json:"description"`
	BudgetedAmount decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"budgeted_amount"`
	RealizedAmount decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"realized_amount"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	YearRef        APBYear           `gorm:"foreignKey:YearID;constraint:OnDelete:CASCADE" json:"-"`
	CategoryRef    APBIncomeCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (APBIncome) TableName() string { return "apb_income" }

// APBExpenditure is a budgeted expenditure line item under a year and category.
type APBExpenditure struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	YearID         uint                   `gorm:"index:idx_expenditure_year_category;not null" json:"year_id"`
	CategoryID     uint                   `gorm:"index:idx_expenditure_year_category;not null" json:"category_id"`
	Activity       string                 `gorm:"size:255;not null" json:"activity"`
	Description    string                 `gorm:"type:text" json:"description"`
	BudgetedAmount decimal.Decimal        `gorm:"type:decimal(15,2);not null" json:"budgeted_amount"`
	RealizedAmount decimal.Decimal        `gorm:"type:decimal(15,2);default:0" json:"realized_amount"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	YearRef        APBYear                `gorm:"foreignKey:YearID;constraint:OnDelete:CASCADE" json:"-"`
	CategoryRef    APBExpenditureCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (APBExpenditure) TableName() string { return "apb_expenditure" }

// Complaint is a citizen report submitted from the public site and triaged by
// an admin.
type Complaint struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Phone         string    `gorm:"size:50;not null" json:"phone"`
	Category      string    `gorm:"size:64;not null;index" json:"category"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Status        string    `gorm:"size:16;default:pending;index" json:"status"`
	AdminResponse *string   `gorm:"type:text" json:"admin_response"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Complaint) TableName() string { return "complaints" }

// SingletonKeyValue is the fixed key shared by all singleton tables.
const SingletonKeyValue = "main"
