package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"bookstore-api/internal/data/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const usersCollection = "users"

// userDocument is the BSON shape of a user. Identifiers are stored as UUID strings.
type userDocument struct {
	ID            string    `bson:"_id"`
	FirstName     string    `bson:"firstName"`
	LastName      string    `bson:"lastName"`
	Email         string    `bson:"email"`
	Password      string    `bson:"password"`
	Role          string    `bson:"role"`
	Picture       string    `bson:"picture"`
	FavoriteBooks []string  `bson:"favoriteBooks"`
	ReportedBy    []string  `bson:"reportedBy"`
	LikedComments []string  `bson:"likedComments"`
	LikedReviews  []string  `bson:"likedReviews"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

type mongoUserRepository struct {
	col *mongo.Collection
	log *zap.Logger
}

func NewMongoUserRepository(db *mongo.Database, log *zap.Logger) UserRepository {
	return &mongoUserRepository{
		col: db.Collection(usersCollection),
		log: log.With(zap.String("repository", "user"), zap.String("driver", "mongo")),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.col.InsertOne(ctx, toUserDocument(user))
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		r.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, zap.String("user_id", id.String()))
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, zap.String("email", email))
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, field zap.Field) (*entity.User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user", zap.Error(err), field)
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toEntity()
}

func (r *mongoUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		r.log.Error("Failed to decode users", zap.Error(err))
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*entity.User, 0, len(docs))
	for i := range docs {
		user, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *mongoUserRepository) AddReporter(ctx context.Context, targetID, reporterID uuid.UUID) error {
	update := bson.M{
		"$addToSet": bson.M{"reportedBy": reporterID.String()},
		"$set":      bson.M{"updatedAt": time.Now()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": targetID.String()}, update)
	if err != nil {
		r.log.Error("Failed to add reporter",
			zap.Error(err),
			zap.String("target_id", targetID.String()),
			zap.String("reporter_id", reporterID.String()),
		)
		return fmt.Errorf("add reporter to user %s: %w", targetID.String(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) ToggleFavoriteBook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	id := bookID.String()
	favorites := bson.D{{Key: "$ifNull", Value: bson.A{"$favoriteBooks", bson.A{}}}}

	// Single pipeline update: filter the id out if present, append it otherwise.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "favoriteBooks", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{id, favorites}}},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: favorites},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", id}}}},
				}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{favorites, bson.A{id}}}},
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}

	doc, err := r.findOneAndUpdate(ctx, userID, pipeline)
	if err != nil {
		return false, err
	}
	return slices.Contains(doc.FavoriteBooks, id), nil
}

func (r *mongoUserRepository) ToggleRole(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "role", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$role", string(entity.RoleUser)}}},
				string(entity.RoleAdmin),
				string(entity.RoleUser),
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}

	doc, err := r.findOneAndUpdate(ctx, id, pipeline)
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

func (r *mongoUserRepository) findOneAndUpdate(ctx context.Context, id uuid.UUID, pipeline mongo.Pipeline) (*userDocument, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, pipeline, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("update user %s: %w", id.String(), err)
	}
	return &doc, nil
}

func toUserDocument(user *entity.User) userDocument {
	return userDocument{
		ID:            user.ID.String(),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Password:      user.PasswordHash,
		Role:          string(user.Role),
		Picture:       user.Picture,
		FavoriteBooks: uuidStrings(user.FavoriteBooks),
		ReportedBy:    uuidStrings(user.ReportedBy),
		LikedComments: uuidStrings(user.LikedComments),
		LikedReviews:  uuidStrings(user.LikedReviews),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func (d *userDocument) toEntity() (*entity.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse user id %q: %w", d.ID, err)
	}

	user := &entity.User{
		Base: entity.Base{
			ID:        id,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         entity.UserRole(d.Role),
		Picture:      d.Picture,
	}

	if user.FavoriteBooks, err = parseUUIDs(d.FavoriteBooks); err != nil {
		return nil, err
	}
	if user.ReportedBy, err = parseUUIDs(d.ReportedBy); err != nil {
		return nil, err
	}
	if user.LikedComments, err = parseUUIDs(d.LikedComments); err != nil {
		return nil, err
	}
	if user.LikedReviews, err = parseUUIDs(d.LikedReviews); err != nil {
		return nil, err
	}
	return user, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
