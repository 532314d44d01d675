package repo

import (
	"context"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DonorRow is a donor joined with its phone number
type DonorRow struct {
	DonorID   uint   `json:"donor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// DonationRow is a donation with donor and handling employee names
type DonationRow struct {
	DonationID        uint      `json:"donation_id"`
	DonationDate      time.Time `json:"donation_date"`
	EstimatedValue    int64     `json:"estimated_value"`
	DonorID           uint      `json:"donor_id"`
	DonorFirstName    string    `json:"donor_first_name"`
	DonorLastName     string    `json:"donor_last_name"`
	EmployeeID        uint      `json:"employee_id"`
	EmployeeFirstName string    `json:"employee_first_name"`
	EmployeeLastName  string    `json:"employee_last_name"`
}

// DonationRepository handles donors and their donations
type DonationRepository struct {
	db    *db.DB
	clock clock.Clock
	log   *zap.Logger
}

// NewDonationRepository creates a new donation repository. The clock dates new donations.
func NewDonationRepository(database *db.DB, clk clock.Clock, logger *zap.Logger) *DonationRepository {
	return &DonationRepository{
		db:    database,
		clock: clk,
		log:   logger,
	}
}

// AddDonor creates a donor with an optional phone number
func (r *DonationRepository) AddDonor(ctx context.Context, firstName, lastName, phone string) (*db.Donor, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, invalidInput("first and last name are required")
	}

	donor := &db.Donor{FirstName: firstName, LastName: lastName}
	if phone = strings.TrimSpace(phone); phone != "" {
		donor.Phone = &db.DonorPhone{Phone: phone}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(donor).Error
	})
	if err != nil {
		return nil, writeFailure(r.log, "add donor", err)
	}
	r.log.Info("Donor added", zap.Uint("donor_id", donor.ID))
	return donor, nil
}

// ListDonors returns all donors ordered by id
func (r *DonationRepository) ListDonors(ctx context.Context) ([]DonorRow, error) {
	rows := []DonorRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT d.id AS donor_id, d.first_name, d.last_name, COALESCE(dp.phone, '') AS phone
		FROM donors d
		LEFT JOIN donor_phones dp ON dp.donor_id = d.id
		ORDER BY d.id`).Scan(&rows).Error
	if err != nil {
		return nil, readFailure(r.log, "list donors", err)
	}
	return rows, nil
}

// AddDonation records a donation dated now. Donor and employee must exist.
func (r *DonationRepository) AddDonation(ctx context.Context, donorID, employeeID uint, estimatedValue int64) (*db.Donation, error) {
	if estimatedValue < 0 {
		return nil, invalidInput("estimated value must not be negative")
	}

	donation := &db.Donation{
		DonorID:        donorID,
		EmployeeID:     employeeID,
		EstimatedValue: estimatedValue,
		DonationDate:   r.clock.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &db.Donor{}, donorID, "donor"); err != nil {
			return err
		}
		if err := mustExist(tx, &db.Employee{}, employeeID, "employee"); err != nil {
			return err
		}
		return tx.Create(donation).Error
	})
	if err != nil {
		return nil, writeFailure(r.log, "add donation", err, zap.Uint("donor_id", donorID))
	}

	r.log.Info("Donation recorded",
		zap.Uint("donation_id", donation.ID),
		zap.Uint("donor_id", donorID),
		zap.Int64("estimated_value", estimatedValue),
	)
	return donation, nil
}

// ListDonations returns all donations, newest first
func (r *DonationRepository) ListDonations(ctx context.Context) ([]DonationRow, error) {
	rows := []DonationRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT dn.id AS donation_id, dn.donation_date, dn.estimated_value,
		       d.id AS donor_id, d.first_name AS donor_first_name, d.last_name AS donor_last_name,
		       e.id AS employee_id, e.first_name AS employee_first_name, e.last_name AS employee_last_name
		FROM donations dn
		JOIN donors d ON d.id = dn.donor_id
		JOIN employees e ON e.id = dn.employee_id
		ORDER BY dn.donation_date DESC, dn.id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, readFailure(r.log, "list donations", err)
	}
	return rows, nil
}
