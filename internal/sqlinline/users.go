package sqlinline

const QUpsertGoogleUser = `--sql 0c73b350-350f-4fc7-bedb-d0d5136e4497
insert into users (id, google_sub, email, name, picture, role, status, created_at, last_login)
values (gen_random_uuid(), $1, $2, $3, $4, $5, 'Active', now(), now())
on conflict (email) do update set
    google_sub = excluded.google_sub,
    name = excluded.name,
    picture = excluded.picture,
    role = excluded.role,
    last_login = now()
returning id, email, name, picture, role, status;
`
