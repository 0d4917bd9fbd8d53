// Package repo provides postgres access for posts and the follow graph
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/repokit"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	"github.com/TanvirAuntu75/snapverse/internal/services/feed/domain"
)

// Schema is the minimal layout the repo reads and writes
const Schema = `
create table if not exists posts (
	id          text primary key,
	author_id   text not null,
	content     text not null default '',
	media_urls  text[] not null default '{}',
	location    text,
	created_at  timestamptz not null default now(),
	annotation  jsonb
);
create index if not exists posts_created_at_idx on posts (created_at desc);
create index if not exists posts_unannotated_idx on posts (created_at) where annotation is null;

create table if not exists follows (
	follower_id text not null,
	followee_id text not null,
	primary key (follower_id, followee_id)
);
`

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements domain.PostSource
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[domain.PostSource] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.PostSource { return &queries{q: q} }

const postColumns = `id, author_id, content, media_urls, coalesce(location, ''), created_at, annotation`

func scanPost(r repokit.Row) (rank.Post, error) {
	var (
		p   rank.Post
		raw []byte
	)
	if err := r.Scan(&p.ID, &p.AuthorID, &p.Content, &p.MediaURLs, &p.Location, &p.CreatedAt, &raw); err != nil {
		return rank.Post{}, err
	}
	if len(raw) > 0 {
		var a annotation.Annotation
		if err := json.Unmarshal(raw, &a); err != nil {
			return rank.Post{}, perr.Wrapf(err, perr.ErrorCodeDB, "post %s: bad annotation", p.ID)
		}
		a = a.Normalize()
		p.Annotation = &a
	}
	return p, nil
}

func (r *queries) Candidates(ctx context.Context, viewerID string, since time.Time, limit int) ([]rank.Post, error) {
	// followed authors first so a small limit still carries them
	const sql = `
select ` + postColumns + `
from posts p
where p.created_at > $1
and p.author_id <> $2
order by exists (
	select 1 from follows f where f.follower_id = $2 and f.followee_id = p.author_id
) desc, p.created_at desc, p.id
limit $3
`
	out, err := store.Many(ctx, r.q, scanPost, sql, since, viewerID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "feed: candidates")
	}
	return out, nil
}

func (r *queries) Corpus(ctx context.Context, since time.Time, limit int) ([]rank.Post, error) {
	const sql = `
select ` + postColumns + `
from posts
where created_at > $1
order by created_at desc, id
limit $2
`
	out, err := store.Many(ctx, r.q, scanPost, sql, since, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "feed: corpus")
	}
	return out, nil
}

func (r *queries) Following(ctx context.Context, viewerID string) ([]string, error) {
	const sql = `select followee_id from follows where follower_id = $1 order by followee_id`
	out, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, sql, viewerID)
	if err != nil {
		return nil, perr.FromPostgres(err, "feed: following")
	}
	return out, nil
}

func (r *queries) Unannotated(ctx context.Context, limit int) ([]rank.Post, error) {
	const sql = `
select ` + postColumns + `
from posts
where annotation is null
order by created_at, id
limit $1
`
	out, err := store.Many(ctx, r.q, scanPost, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "feed: unannotated")
	}
	return out, nil
}

// SaveAnnotations overwrites the annotation of each listed post. Callers run
// it in a transaction.
func (r *queries) SaveAnnotations(ctx context.Context, xs []domain.PostAnnotation) error {
	const sql = `update posts set annotation = $2::jsonb where id = $1`
	for _, x := range xs {
		raw, err := json.Marshal(x.Annotation)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "feed: marshal annotation")
		}
		if _, err := r.q.Exec(ctx, sql, x.PostID, string(raw)); err != nil {
			return perr.FromPostgresf(err, "feed: save annotation %s", x.PostID)
		}
	}
	return nil
}
