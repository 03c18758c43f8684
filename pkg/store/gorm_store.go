package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"tripsplit/pkg/domain"
)

const migrateLockID int64 = 41903127

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations under an advisory lock
// so multiple replicas can boot concurrently.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&UserModel{},
			&GroupModel{},
			&MemberModel{},
			&ExpenseModel{},
			&PaymentModel{},
			&UploadedExpenseModel{},
			&ItineraryItemModel{},
			&ChatTurnModel{},
		); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// users

// SaveUser registers or updates a user.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "password_hash", "updated_at"}),
	}).Create(&model).Error
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// groups and members

// SaveGroup stores or updates a group.
func (s *GormStore) SaveGroup(g domain.Group) error {
	model := groupToModel(g)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "type", "start_date", "end_date", "updated_at"}),
	}).Create(&model).Error
}

// GetGroup retrieves a group without its members.
func (s *GormStore) GetGroup(id string) (domain.Group, bool, error) {
	var model GroupModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Group{}, false, nil
		}
		return domain.Group{}, false, err
	}
	return groupFromModel(model), true, nil
}

// ListGroupsByUser returns the groups where the user holds a membership,
// oldest first.
func (s *GormStore) ListGroupsByUser(userID string) ([]domain.Group, error) {
	var models []GroupModel
	err := s.db.
		Joins("JOIN member_models ON member_models.group_id = group_models.id").
		Where("member_models.user_id = ?", userID).
		Order("group_models.created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Group, 0, len(models))
	for _, m := range models {
		res = append(res, groupFromModel(m))
	}
	return res, nil
}

// SaveMember stores or updates a group member.
func (s *GormStore) SaveMember(m domain.Member) error {
	model := memberToModel(m)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "display_name", "email"}),
	}).Create(&model).Error
}

// GetMember retrieves one member.
func (s *GormStore) GetMember(id string) (domain.Member, bool, error) {
	var model MemberModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Member{}, false, nil
		}
		return domain.Member{}, false, err
	}
	return memberFromModel(model), true, nil
}

// ListGroupMembers returns members in join order.
func (s *GormStore) ListGroupMembers(groupID string) ([]domain.Member, error) {
	var models []MemberModel
	if err := s.db.Where("group_id = ?", groupID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Member, 0, len(models))
	for _, m := range models {
		res = append(res, memberFromModel(m))
	}
	return res, nil
}

// expenses

// SaveExpense stores or updates an expense with its nested structures.
func (s *GormStore) SaveExpense(e domain.Expense) error {
	model, err := expenseToModel(e)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"payer_member_id", "name", "description", "amount", "currency", "date",
			"category", "status", "split_type", "participants", "percent_map",
			"share_map", "line_items", "updated_at",
		}),
	}).Create(&model).Error
}

// GetExpense retrieves one expense.
func (s *GormStore) GetExpense(id string) (domain.Expense, bool, error) {
	var model ExpenseModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Expense{}, false, nil
		}
		return domain.Expense{}, false, err
	}
	expense, err := expenseFromModel(model)
	if err != nil {
		return domain.Expense{}, false, err
	}
	return expense, true, nil
}

// ListGroupExpenses returns a group's expenses, newest first.
func (s *GormStore) ListGroupExpenses(groupID string) ([]domain.Expense, error) {
	var models []ExpenseModel
	if err := s.db.Where("group_id = ?", groupID).Order("date DESC, created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Expense, 0, len(models))
	for _, m := range models {
		expense, err := expenseFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, expense)
	}
	return res, nil
}

// DeleteExpense removes an expense and its payments and uploads.
func (s *GormStore) DeleteExpense(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&PaymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", id).Delete(&UploadedExpenseModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ExpenseModel{}, "id = ?", id).Error
	})
}

// payments

// SavePayment stores or updates a payment.
func (s *GormStore) SavePayment(p domain.ExpensePayment) error {
	model := paymentToModel(p)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payer_member_id", "amount", "currency", "paid_at", "note"}),
	}).Create(&model).Error
}

// GetPayment retrieves one payment.
func (s *GormStore) GetPayment(id string) (domain.ExpensePayment, bool, error) {
	var model PaymentModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ExpensePayment{}, false, nil
		}
		return domain.ExpensePayment{}, false, err
	}
	return paymentFromModel(model), true, nil
}

// ListExpensePayments returns payments oldest first.
func (s *GormStore) ListExpensePayments(expenseID string) ([]domain.ExpensePayment, error) {
	var models []PaymentModel
	if err := s.db.Where("expense_id = ?", expenseID).Order("paid_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.ExpensePayment, 0, len(models))
	for _, m := range models {
		res = append(res, paymentFromModel(m))
	}
	return res, nil
}

// DeletePayment removes a payment.
func (s *GormStore) DeletePayment(id string) error {
	return s.db.Delete(&PaymentModel{}, "id = ?", id).Error
}

// receipt uploads

// SaveUploadedExpense stores or updates an upload record.
func (s *GormStore) SaveUploadedExpense(u domain.UploadedExpense) error {
	model := uploadToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"processing_status", "attempts", "raw_text", "parsed_json", "last_error", "updated_at",
		}),
	}).Create(&model).Error
}

// GetUploadedExpense retrieves one upload record.
func (s *GormStore) GetUploadedExpense(id string) (domain.UploadedExpense, bool, error) {
	var model UploadedExpenseModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.UploadedExpense{}, false, nil
		}
		return domain.UploadedExpense{}, false, err
	}
	return uploadFromModel(model), true, nil
}

// ListExpenseUploads returns upload records for an expense, newest first.
func (s *GormStore) ListExpenseUploads(expenseID string) ([]domain.UploadedExpense, error) {
	var models []UploadedExpenseModel
	if err := s.db.Where("expense_id = ?", expenseID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.UploadedExpense, 0, len(models))
	for _, m := range models {
		res = append(res, uploadFromModel(m))
	}
	return res, nil
}

// SetUploadStatus updates processing status and error message.
func (s *GormStore) SetUploadStatus(id string, status domain.UploadStatus, lastError string) error {
	return s.db.Model(&UploadedExpenseModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processing_status": string(status),
			"last_error":        lastError,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// DeleteUploadedExpense removes an upload record.
func (s *GormStore) DeleteUploadedExpense(id string) error {
	return s.db.Delete(&UploadedExpenseModel{}, "id = ?", id).Error
}

// itinerary

// SaveItineraryItem stores an itinerary item.
func (s *GormStore) SaveItineraryItem(item domain.ItineraryItem) error {
	model, err := itineraryToModel(item)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "title", "start_date_time", "end_date_time", "member_ids",
		}),
	}).Create(&model).Error
}

// GetItineraryItem retrieves one item.
func (s *GormStore) GetItineraryItem(id string) (domain.ItineraryItem, bool, error) {
	var model ItineraryItemModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ItineraryItem{}, false, nil
		}
		return domain.ItineraryItem{}, false, err
	}
	item, err := itineraryFromModel(model)
	if err != nil {
		return domain.ItineraryItem{}, false, err
	}
	return item, true, nil
}

// ListGroupItineraryItems returns a group's items ordered by start time.
func (s *GormStore) ListGroupItineraryItems(groupID string) ([]domain.ItineraryItem, error) {
	var models []ItineraryItemModel
	if err := s.db.Where("group_id = ?", groupID).Order("start_date_time ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return itineraryListFromModels(models)
}

// ListMemberTransportItems returns the items a member is assigned to,
// ordered by start time. Membership lives in the member_ids jsonb array.
func (s *GormStore) ListMemberTransportItems(memberID string) ([]domain.ItineraryItem, error) {
	var models []ItineraryItemModel
	err := s.db.
		Where("member_ids @> ?", datatypes.JSON(fmt.Sprintf(`[%q]`, memberID))).
		Order("start_date_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return itineraryListFromModels(models)
}

// chat turns

// AppendChatTurn inserts a history row. Rows are never updated or deleted.
func (s *GormStore) AppendChatTurn(turn domain.ChatTurn) error {
	model := chatTurnToModel(turn)
	return s.db.Create(&model).Error
}

// ListChatTurns returns the newest limit turns for the conversation, in
// creation order.
func (s *GormStore) ListChatTurns(userID, model string, limit int) ([]domain.ChatTurn, error) {
	var models []ChatTurnModel
	tx := s.db.Where("user_id = ? AND model = ?", userID, model).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.ChatTurn, len(models))
	for i, m := range models {
		res[len(models)-1-i] = chatTurnFromModel(m)
	}
	return res, nil
}

// model mapping

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func groupToModel(g domain.Group) GroupModel {
	return GroupModel{
		ID:        g.ID,
		Name:      g.Name,
		Type:      string(g.Type),
		StartDate: g.StartDate,
		EndDate:   g.EndDate,
		CreatedAt: g.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
}

func groupFromModel(m GroupModel) domain.Group {
	return domain.Group{
		ID:        m.ID,
		Name:      m.Name,
		Type:      domain.GroupType(m.Type),
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
	}
}

func memberToModel(m domain.Member) MemberModel {
	return MemberModel{
		ID:          m.ID,
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		CreatedAt:   m.CreatedAt,
	}
}

func memberFromModel(m MemberModel) domain.Member {
	return domain.Member{
		ID:          m.ID,
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		CreatedAt:   m.CreatedAt,
	}
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func fromJSON(raw datatypes.JSON, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func expenseToModel(e domain.Expense) (ExpenseModel, error) {
	participants, err := toJSON(e.Participants)
	if err != nil {
		return ExpenseModel{}, err
	}
	percentMap, err := toJSON(e.PercentMap)
	if err != nil {
		return ExpenseModel{}, err
	}
	shareMap, err := toJSON(e.ShareMap)
	if err != nil {
		return ExpenseModel{}, err
	}
	lineItems, err := toJSON(e.LineItems)
	if err != nil {
		return ExpenseModel{}, err
	}
	return ExpenseModel{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerMemberID: e.PayerMemberID,
		Name:          e.Name,
		Description:   e.Description,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Date:          e.Date,
		Category:      e.Category,
		Status:        string(e.Status),
		SplitType:     string(e.SplitType),
		Participants:  participants,
		PercentMap:    percentMap,
		ShareMap:      shareMap,
		LineItems:     lineItems,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

func expenseFromModel(m ExpenseModel) (domain.Expense, error) {
	expense := domain.Expense{
		ID:            m.ID,
		GroupID:       m.GroupID,
		PayerMemberID: m.PayerMemberID,
		Name:          m.Name,
		Description:   m.Description,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Date:          m.Date,
		Category:      m.Category,
		Status:        domain.ExpenseStatus(m.Status),
		SplitType:     domain.SplitType(m.SplitType),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if err := fromJSON(m.Participants, &expense.Participants); err != nil {
		return domain.Expense{}, err
	}
	if err := fromJSON(m.PercentMap, &expense.PercentMap); err != nil {
		return domain.Expense{}, err
	}
	if err := fromJSON(m.ShareMap, &expense.ShareMap); err != nil {
		return domain.Expense{}, err
	}
	if err := fromJSON(m.LineItems, &expense.LineItems); err != nil {
		return domain.Expense{}, err
	}
	return expense, nil
}

func paymentToModel(p domain.ExpensePayment) PaymentModel {
	return PaymentModel{
		ID:            p.ID,
		ExpenseID:     p.ExpenseID,
		PayerMemberID: p.PayerMemberID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaidAt:        p.PaidAt,
		Note:          p.Note,
		CreatedAt:     p.CreatedAt,
	}
}

func paymentFromModel(m PaymentModel) domain.ExpensePayment {
	return domain.ExpensePayment{
		ID:            m.ID,
		ExpenseID:     m.ExpenseID,
		PayerMemberID: m.PayerMemberID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		PaidAt:        m.PaidAt,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

func uploadToModel(u domain.UploadedExpense) UploadedExpenseModel {
	return UploadedExpenseModel{
		ID:               u.ID,
		ExpenseID:        u.ExpenseID,
		UploadedByID:     u.UploadedByID,
		OriginalFileName: u.OriginalFileName,
		FileType:         u.FileType,
		StorageKey:       u.StorageKey,
		ProcessingStatus: string(u.ProcessingStatus),
		Attempts:         u.Attempts,
		RawText:          u.RawText,
		ParsedJSON:       datatypes.JSON(u.ParsedJSON),
		LastError:        u.LastError,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        time.Now().UTC(),
	}
}

func uploadFromModel(m UploadedExpenseModel) domain.UploadedExpense {
	return domain.UploadedExpense{
		ID:               m.ID,
		ExpenseID:        m.ExpenseID,
		UploadedByID:     m.UploadedByID,
		OriginalFileName: m.OriginalFileName,
		FileType:         m.FileType,
		StorageKey:       m.StorageKey,
		ProcessingStatus: domain.UploadStatus(m.ProcessingStatus),
		Attempts:         m.Attempts,
		RawText:          m.RawText,
		ParsedJSON:       []byte(m.ParsedJSON),
		LastError:        m.LastError,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func itineraryToModel(item domain.ItineraryItem) (ItineraryItemModel, error) {
	memberIDs, err := toJSON(item.MemberIDs)
	if err != nil {
		return ItineraryItemModel{}, err
	}
	return ItineraryItemModel{
		ID:                      item.ID,
		GroupID:                 item.GroupID,
		Type:                    string(item.Type),
		Status:                  string(item.Status),
		Title:                   item.Title,
		StartDateTime:           item.StartDateTime,
		EndDateTime:             item.EndDateTime,
		OriginLocationCode:      item.OriginLocationCode,
		OriginName:              item.OriginName,
		OriginAddress:           item.OriginAddress,
		DestinationLocationCode: item.DestinationLocationCode,
		DestinationName:         item.DestinationName,
		DestinationAddress:      item.DestinationAddress,
		TransportNumber:         item.TransportNumber,
		AirlineCode:             item.AirlineCode,
		AirlineName:             item.AirlineName,
		FlightNumber:            item.FlightNumber,
		RawTransportPayload:     datatypes.JSON(item.RawTransportPayload),
		MemberIDs:               memberIDs,
		CreatedAt:               item.CreatedAt,
	}, nil
}

func itineraryFromModel(m ItineraryItemModel) (domain.ItineraryItem, error) {
	item := domain.ItineraryItem{
		ID:                      m.ID,
		GroupID:                 m.GroupID,
		Type:                    domain.ItineraryItemType(m.Type),
		Status:                  domain.ItineraryItemStatus(m.Status),
		Title:                   m.Title,
		StartDateTime:           m.StartDateTime,
		EndDateTime:             m.EndDateTime,
		OriginLocationCode:      m.OriginLocationCode,
		OriginName:              m.OriginName,
		OriginAddress:           m.OriginAddress,
		DestinationLocationCode: m.DestinationLocationCode,
		DestinationName:         m.DestinationName,
		DestinationAddress:      m.DestinationAddress,
		TransportNumber:         m.TransportNumber,
		AirlineCode:             m.AirlineCode,
		AirlineName:             m.AirlineName,
		FlightNumber:            m.FlightNumber,
		RawTransportPayload:     []byte(m.RawTransportPayload),
		CreatedAt:               m.CreatedAt,
	}
	if err := fromJSON(m.MemberIDs, &item.MemberIDs); err != nil {
		return domain.ItineraryItem{}, err
	}
	return item, nil
}

func itineraryListFromModels(models []ItineraryItemModel) ([]domain.ItineraryItem, error) {
	res := make([]domain.ItineraryItem, 0, len(models))
	for _, m := range models {
		item, err := itineraryFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, nil
}

func chatTurnToModel(t domain.ChatTurn) ChatTurnModel {
	return ChatTurnModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Prompt:    t.Prompt,
		Response:  t.Response,
		Model:     t.Model,
		CreatedAt: t.CreatedAt,
	}
}

func chatTurnFromModel(m ChatTurnModel) domain.ChatTurn {
	return domain.ChatTurn{
		ID:        m.ID,
		UserID:    m.UserID,
		Prompt:    m.Prompt,
		Response:  m.Response,
		Model:     m.Model,
		CreatedAt: m.CreatedAt,
	}
}
