package sqlinline

const QListHistory = `--sql e9e91053-3364-41a4-bd14-e1e90ab729c6
select id, type, prompt, outputs, parameters, created_at
from history_items
where user_id = $1
order by created_at desc, id desc;
`

// QAppendHistory inserts the new item and evicts the oldest pre-existing
// entries so the total stays at the $7 cap. The delete runs on the snapshot
// taken before the insert, so it keeps $7 - 1 old rows plus the new one.
const QAppendHistory = `--sql 27a3ee2e-a16b-4ba7-96f6-c4e4f8587cfc
with inserted as (
    insert into history_items (id, user_id, type, prompt, outputs, parameters, created_at)
    values ($1, $2, $3, $4, $5, $6, now())
    returning user_id
)
delete from history_items
where user_id = $2
  and id not in (
    select id from history_items
    where user_id = $2
    order by created_at desc, id desc
    limit greatest($7 - 1, 0)
  );
`

const QDeleteHistoryItem = `--sql d00ed76c-f0a9-4abe-ab07-6408a0a4114e
delete from history_items
where user_id = $1 and id = $2;
`

const QClearHistory = `--sql 5af2036f-ffc0-479f-8d25-aaa38602d485
delete from history_items
where user_id = $1;
`
