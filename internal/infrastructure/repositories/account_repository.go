package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/assessauth/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID           uint       `gorm:"primaryKey"`
	Email        string     `gorm:"index:idx_email_role,unique;size:255"`
	FullName     string     `gorm:"size:255"`
	Mobile       string     `gorm:"index;size:32"`
	PasswordHash string     `gorm:"column:password"`
	Role         string     `gorm:"index:idx_email_role,unique;size:32"`
	IsActive     bool       `gorm:"index"`
	FirstLogin   bool       `gorm:"index"`
	TrialEndsAt  *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		return err
	}
	account.ID = dbAccount.ID
	return nil
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByEmailAndRole implements domain.AccountRepository. The same email may
// exist under different roles; the role claim picks the rule set.
func (r *AccountRepositoryImpl) FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("email = ? AND role = ?", email, string(role)).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByMobile implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByMobile(ctx context.Context, mobile string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("mobile = ?", mobile).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// UpdatePassword implements domain.AccountRepository
func (r *AccountRepositoryImpl) UpdatePassword(ctx context.Context, accountID uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", accountID).
		Update("password", passwordHash).Error
}

// ClearFirstLogin implements domain.AccountRepository
func (r *AccountRepositoryImpl) ClearFirstLogin(ctx context.Context, accountID uint) error {
	return r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", accountID).
		Update("first_login", false).Error
}

// HasTrialRecord implements domain.AccountRepository. Soft-deleted rows count
// too: an expired trial still blocks re-registration.
func (r *AccountRepositoryImpl) HasTrialRecord(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&DBAccount{}).
		Where("email = ? AND role = ?", email, string(domain.RoleTrial)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:           account.ID,
		Email:        account.Email,
		FullName:     account.FullName,
		Mobile:       account.Mobile,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
		IsActive:     account.IsActive,
		FirstLogin:   account.FirstLogin,
		TrialEndsAt:  account.TrialEndsAt,
	}
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:           dbAccount.ID,
		Email:        dbAccount.Email,
		FullName:     dbAccount.FullName,
		Mobile:       dbAccount.Mobile,
		PasswordHash: dbAccount.PasswordHash,
		Role:         domain.Role(dbAccount.Role),
		IsActive:     dbAccount.IsActive,
		FirstLogin:   dbAccount.FirstLogin,
		TrialEndsAt:  dbAccount.TrialEndsAt,
		CreatedAt:    dbAccount.CreatedAt,
		UpdatedAt:    dbAccount.UpdatedAt,
	}
}
