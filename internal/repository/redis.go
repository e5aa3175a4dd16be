package repository

import (
	"context"
	"strconv"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic transaction retries after a WATCH conflict.
const maxTxRetries = 3

// RedisStore keeps each person in a hash. Keys, with prefix "phonebook":
//
//	phonebook:persons:seq     id counter (INCR)
//	phonebook:persons:ids     sorted set of ids, scored by id
//	phonebook:person:<id>     hash {name, number}
//	phonebook:persons:names   hash name -> number of persons with that name
//
// The names hash is maintained whatever the policy, so clients sharing a
// prefix under different policies see the same names. Only the check
// depends on UniqueNames.
type RedisStore struct {
	client *redis.Client
	prefix string
	policy validation.Policy
}

func NewRedisStore(client *redis.Client, prefix string, policy validation.Policy) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, policy: policy}
}

func (s *RedisStore) seqKey() string   { return s.prefix + ":persons:seq" }
func (s *RedisStore) idsKey() string   { return s.prefix + ":persons:ids" }
func (s *RedisStore) namesKey() string { return s.prefix + ":persons:names" }

func (s *RedisStore) personKey(id string) string {
	return s.prefix + ":person:" + id
}

func parseCounterID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, errs.ErrInvalidIdentifier
	}
	return n, nil
}

func (s *RedisStore) List(ctx context.Context) ([]model.Person, error) {
	ids, err := s.client.ZRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "listing person ids")
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.personKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing persons")
	}

	persons := make([]model.Person, 0, len(ids))
	for i, cmd := range cmds {
		values := cmd.Val()
		if len(values) == 0 {
			continue
		}
		persons = append(persons, model.Person{ID: ids[i], Name: values["name"], Number: values["number"]})
	}
	return persons, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Person, error) {
	if _, err := parseCounterID(id); err != nil {
		return nil, err
	}

	values, err := s.client.HGetAll(ctx, s.personKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "getting person")
	}
	if len(values) == 0 {
		return nil, errs.ErrNotFound
	}
	return &model.Person{ID: id, Name: values["name"], Number: values["number"]}, nil
}

func (s *RedisStore) Create(ctx context.Context, fields model.PersonFields) (*model.Person, error) {
	fields, err := validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "allocating person id")
	}
	id := strconv.FormatInt(seq, 10)

	err = s.transact(ctx, func(tx *redis.Tx) error {
		if s.policy.UniqueNames {
			holders, err := s.nameHolders(ctx, tx, fields.Name)
			if err != nil {
				return err
			}
			if holders > 0 {
				return validation.DuplicateName()
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.personKey(id), "name", fields.Name, "number", fields.Number)
			pipe.ZAdd(ctx, s.idsKey(), redis.Z{Score: float64(seq), Member: id})
			pipe.HIncrBy(ctx, s.namesKey(), fields.Name, 1)
			return nil
		})
		return err
	}, s.namesKey())
	if err != nil {
		return nil, errors.WithMessage(err, "creating person")
	}

	return &model.Person{ID: id, Name: fields.Name, Number: fields.Number}, nil
}

func (s *RedisStore) Replace(ctx context.Context, id string, fields model.PersonFields) (*model.Person, error) {
	if _, err := parseCounterID(id); err != nil {
		return nil, err
	}

	fields, err := validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	key := s.personKey(id)

	err = s.transact(ctx, func(tx *redis.Tx) error {
		oldName, err := tx.HGet(ctx, key, "name").Result()
		if errors.Is(err, redis.Nil) {
			return errs.ErrNotFound
		}
		if err != nil {
			return err
		}

		if s.policy.UniqueNames {
			holders, err := s.nameHolders(ctx, tx, fields.Name)
			if err != nil {
				return err
			}
			if oldName == fields.Name {
				holders--
			}
			if holders > 0 {
				return validation.DuplicateName()
			}
		}

		oldHolders, err := s.nameHolders(ctx, tx, oldName)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "name", fields.Name, "number", fields.Number)
			if oldName != fields.Name {
				s.releaseName(ctx, pipe, oldName, oldHolders)
				pipe.HIncrBy(ctx, s.namesKey(), fields.Name, 1)
			}
			return nil
		})
		return err
	}, key, s.namesKey())
	if err != nil {
		return nil, errors.WithMessage(err, "replacing person")
	}

	return &model.Person{ID: id, Name: fields.Name, Number: fields.Number}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if _, err := parseCounterID(id); err != nil {
		return err
	}

	key := s.personKey(id)

	err := s.transact(ctx, func(tx *redis.Tx) error {
		name, err := tx.HGet(ctx, key, "name").Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		holders, err := s.nameHolders(ctx, tx, name)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, s.idsKey(), id)
			s.releaseName(ctx, pipe, name, holders)
			return nil
		})
		return err
	}, key, s.namesKey())
	if err != nil {
		return errors.WithMessage(err, "deleting person")
	}
	return nil
}

// nameHolders reports how many live persons carry name.
func (s *RedisStore) nameHolders(ctx context.Context, tx *redis.Tx, name string) (int64, error) {
	n, err := tx.HGet(ctx, s.namesKey(), name).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// releaseName drops one holder of name, removing the field with the last one.
func (s *RedisStore) releaseName(ctx context.Context, pipe redis.Pipeliner, name string, holders int64) {
	if holders <= 1 {
		pipe.HDel(ctx, s.namesKey(), name)
		return
	}
	pipe.HIncrBy(ctx, s.namesKey(), name, -1)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// transact runs fn under WATCH keys, retrying when another client touched them.
func (s *RedisStore) transact(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	var err error
	for range maxTxRetries {
		err = s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}
