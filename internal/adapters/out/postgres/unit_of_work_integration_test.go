package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	postgres_tc "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cafe/internal/adapters/out/postgres"
	"cafe/internal/adapters/out/postgres/historyrepo"
	"cafe/internal/adapters/out/postgres/orderrepo"
	"cafe/internal/adapters/out/postgres/stationrepo"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/menu"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/errs"
)

type UnitOfWorkTestSuite struct {
	suite.Suite
	container *postgres_tc.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres_tc.Run(ctx,
		"postgres:15-alpine",
		postgres_tc.WithDatabase("testdb"),
		postgres_tc.WithUsername("testuser"),
		postgres_tc.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable",
					host, port.Port())
			}).WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&stationrepo.StationDTO{},
		&stationrepo.QueueEntryDTO{},
		&historyrepo.HistoryDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, order_lines, stations, station_queue_entries, order_histories CASCADE",
	).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkTestSuite) newOrder() *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), nil, "Ana", nil, 2, "", time.Now().UTC().Truncate(time.Second))
	suite.Require().NoError(err)

	product, err := menu.NewProduct(kernel.NewUUID(), "Café Americano", menu.CategoryBeverages,
		kernel.MustPriceFromCents(250), 5, nil)
	suite.Require().NoError(err)
	line, err := order.NewLine(kernel.NewUUID(), product, 1, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AddLine(line))

	return o
}

func (suite *UnitOfWorkTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.OrderHistoryRepository().Append(ctx, order.HistoryRecord{
		ID:         kernel.NewUUID(),
		OrderID:    o.ID(),
		Action:     order.HistoryActionCreate,
		NewStatus:  o.Status().String(),
		Reason:     "order created - table 2",
		OccurredAt: time.Now().UTC(),
	}))
	suite.Require().NoError(uow.Commit(ctx))

	verify := suite.factory.Create()
	loaded, err := verify.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(o.ID()))

	records, err := verify.OrderHistoryRepository().ListForOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal(order.HistoryActionCreate, records[0].Action)
}

func (suite *UnitOfWorkTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err := verify.OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkTestSuite) TestCommitWithoutBegin_Fails() {
	uow := suite.factory.Create()
	err := uow.Commit(context.Background())
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkTestSuite) TestUncommittedWritesInvisibleOutsideTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))

	outside := suite.factory.Create()
	_, err := outside.OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(uow.Rollback(ctx))
}

func TestUnitOfWorkTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}
