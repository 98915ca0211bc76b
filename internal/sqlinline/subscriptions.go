package sqlinline

const QGetSubscription = `--sql 6301bf66-2edd-40b9-88a8-5d9d50bce869
select plan_name, image_count, video_count, start_date
from subscriptions
where user_id = $1;
`

const QSetSubscriptionPlan = `--sql 18801ed0-5de1-47d1-a05c-4848cb1f8e58
insert into subscriptions (user_id, plan_name, image_count, video_count, start_date)
values ($1, $2, 0, 0, now())
on conflict (user_id) do update set
    plan_name = excluded.plan_name,
    image_count = 0,
    video_count = 0,
    start_date = now();
`

const QIncrementImageUsage = `--sql 03f30ed1-2ed8-42d8-8e5f-758850d8617f
update subscriptions
set image_count = image_count + 1
where user_id = $1;
`

const QIncrementVideoUsage = `--sql de5b0582-e33b-4229-a0ff-85ebf03452ad
update subscriptions
set video_count = video_count + 1
where user_id = $1;
`
