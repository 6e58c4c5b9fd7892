package db

import (
	"context"

	"lanyard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo-backed implementations of the store interfaces.

type MongoAttendees struct {
	Client *mongo.Client
	Coll   *mongo.Collection
}

func NewMongoAttendees(c *Collections) *MongoAttendees {
	return &MongoAttendees{Client: c.Client, Coll: c.Attendees}
}

func (s *MongoAttendees) findOne(ctx context.Context, filter bson.M) (*models.Attendee, error) {
	var a models.Attendee
	err := s.Coll.FindOne(ctx, filter).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoAttendees) Get(ctx context.Context, id string) (*models.Attendee, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *MongoAttendees) FindByEmail(ctx context.Context, email string) (*models.Attendee, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoAttendees) FindByBadgeID(ctx context.Context, badgeID string) (*models.Attendee, error) {
	return s.findOne(ctx, bson.M{"source.badgeId": badgeID})
}

func (s *MongoAttendees) FindByQRToken(ctx context.Context, token string) (*models.Attendee, error) {
	return s.findOne(ctx, bson.M{"source.qrToken": token})
}

func (s *MongoAttendees) Put(ctx context.Context, a *models.Attendee) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.Coll.ReplaceOne(ctx, bson.M{"id": a.ID}, a, opts)
	return err
}

// IncrScanCounts runs both $inc updates inside one session transaction
// so concurrent scans never leave a single-sided count.
func (s *MongoAttendees) IncrScanCounts(ctx context.Context, fromID, toID string) error {
	session, err := s.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.Coll.UpdateOne(sc, bson.M{"id": fromID},
			bson.M{"$inc": bson.M{"scansGiven": 1}}); err != nil {
			return nil, err
		}
		if _, err := s.Coll.UpdateOne(sc, bson.M{"id": toID},
			bson.M{"$inc": bson.M{"scansReceived": 1}}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

type MongoActors struct {
	Coll *mongo.Collection
}

func NewMongoActors(c *Collections) *MongoActors { return &MongoActors{Coll: c.Actors} }

func (s *MongoActors) Get(ctx context.Context, id string) (*models.Actor, error) {
	var a models.Actor
	err := s.Coll.FindOne(ctx, bson.M{"id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoActors) Put(ctx context.Context, a *models.Actor) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.Coll.ReplaceOne(ctx, bson.M{"id": a.ID}, a, opts)
	return err
}

func (s *MongoActors) Delete(ctx context.Context, id string) error {
	_, err := s.Coll.DeleteOne(ctx, bson.M{"id": id})
	return err
}

func (s *MongoActors) List(ctx context.Context) ([]models.Actor, error) {
	cur, err := s.Coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var actors []models.Actor
	if err := cur.All(ctx, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}

type MongoScans struct {
	Coll *mongo.Collection
}

func NewMongoScans(c *Collections) *MongoScans { return &MongoScans{Coll: c.Scans} }

func (s *MongoScans) Insert(ctx context.Context, scan *models.BadgeScan) error {
	_, err := s.Coll.InsertOne(ctx, scan)
	return err
}

func (s *MongoScans) Delete(ctx context.Context, scanID string) error {
	_, err := s.Coll.DeleteOne(ctx, bson.M{"scanId": scanID})
	return err
}

type MongoMeetings struct {
	Coll *mongo.Collection
}

func NewMongoMeetings(c *Collections) *MongoMeetings { return &MongoMeetings{Coll: c.Meetings} }

func (s *MongoMeetings) Get(ctx context.Context, id string) (*models.Meeting, error) {
	var m models.Meeting
	err := s.Coll.FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MongoMeetings) Put(ctx context.Context, m *models.Meeting) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.Coll.ReplaceOne(ctx, bson.M{"id": m.ID}, m, opts)
	return err
}

func (s *MongoMeetings) FindActiveForPair(ctx context.Context, actorA, actorB string) (*models.Meeting, error) {
	filter := bson.M{
		"status": bson.M{"$in": []string{models.MeetingRequested, models.MeetingScheduled}},
		"$or": []bson.M{
			{"fromActorId": actorA, "toActorId": actorB},
			{"fromActorId": actorB, "toActorId": actorA},
		},
	}
	var m models.Meeting
	err := s.Coll.FindOne(ctx, filter).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MongoMeetings) FindByStatus(ctx context.Context, status string) ([]models.Meeting, error) {
	return s.findAll(ctx, bson.M{"status": status})
}

func (s *MongoMeetings) FindForActor(ctx context.Context, actorID, status string) ([]models.Meeting, error) {
	filter := bson.M{"$or": []bson.M{
		{"fromActorId": actorID},
		{"toActorId": actorID},
	}}
	if status != "" {
		filter["status"] = status
	}
	return s.findAll(ctx, filter)
}

func (s *MongoMeetings) findAll(ctx context.Context, filter bson.M) ([]models.Meeting, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cur, err := s.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var meetings []models.Meeting
	if err := cur.All(ctx, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

type MongoUploads struct {
	Coll *mongo.Collection
}

func NewMongoUploads(c *Collections) *MongoUploads { return &MongoUploads{Coll: c.Uploads} }

func (s *MongoUploads) PutReport(ctx context.Context, r *models.UploadReport) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.Coll.ReplaceOne(ctx, bson.M{"uploadId": r.UploadID}, r, opts)
	return err
}

func (s *MongoUploads) GetReport(ctx context.Context, uploadID string) (*models.UploadReport, error) {
	var r models.UploadReport
	err := s.Coll.FindOne(ctx, bson.M{"uploadId": uploadID}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type MongoUsers struct {
	Coll *mongo.Collection
}

func NewMongoUsers(c *Collections) *MongoUsers { return &MongoUsers{Coll: c.Users} }

func (s *MongoUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.Coll.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUsers) Insert(ctx context.Context, u *models.User) error {
	_, err := s.Coll.InsertOne(ctx, u)
	return err
}
